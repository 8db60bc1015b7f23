package domain

import "errors"

var (
	ErrInvalidOrganizer  = errors.New("organizer id required")
	ErrInvalidDateRange  = errors.New("start date is after end date")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventForbidden    = errors.New("event belongs to another organizer")
	ErrTitleRequired     = errors.New("event title required")
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidSchedule   = errors.New("event must start before it ends")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrEventNotEditable  = errors.New("only draft or rejected events can be edited")
	ErrInvalidID         = errors.New("invalid id")
)
