package app

import (
	"context"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/clock"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	UpdateEventStatus(ctx context.Context, eventID int64, status domain.EventStatus, updatedAt time.Time) error
	GetEvent(ctx context.Context, eventID int64) (domain.Event, error)
	ListEvents(ctx context.Context, organizerID int64, status *domain.EventStatus) ([]domain.Event, error)
	ListEventTickets(ctx context.Context, eventID int64) ([]domain.Ticket, error)
	ListEventAttendees(ctx context.Context, eventID int64) ([]domain.EventAttendee, error)
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	OrganizerID  int64
	Title        string
	Description  string
	Venue        string
	StartsAt     time.Time
	EndsAt       time.Time
	MaxAttendees int
	Price        float64
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.OrganizerID <= 0 {
		return domain.Event{}, domain.ErrInvalidOrganizer
	}
	if in.Title == "" {
		return domain.Event{}, domain.ErrTitleRequired
	}
	if in.MaxAttendees <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if in.Price < 0 {
		return domain.Event{}, domain.ErrInvalidPrice
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return domain.Event{}, domain.ErrInvalidSchedule
	}

	now := s.clock.Now()
	event := domain.Event{
		OrganizerID:  in.OrganizerID,
		Title:        in.Title,
		Description:  in.Description,
		Venue:        in.Venue,
		Status:       domain.EventStatusDraft,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
		MaxAttendees: in.MaxAttendees,
		Price:        in.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.CreateEvent(ctx, event)
}

type UpdateEventInput struct {
	OrganizerID  int64
	EventID      int64
	Title        string
	Description  string
	Venue        string
	StartsAt     time.Time
	EndsAt       time.Time
	MaxAttendees int
	Price        float64
}

// UpdateEvent rewrites an event's editable fields. Only draft and rejected
// events may change; approved and pending ones are locked to what review saw.
func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (domain.Event, error) {
	if in.Title == "" {
		return domain.Event{}, domain.ErrTitleRequired
	}
	if in.MaxAttendees <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if in.Price < 0 {
		return domain.Event{}, domain.ErrInvalidPrice
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return domain.Event{}, domain.ErrInvalidSchedule
	}

	event, err := s.getOwned(ctx, in.OrganizerID, in.EventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.Status != domain.EventStatusDraft && event.Status != domain.EventStatusRejected {
		return domain.Event{}, domain.ErrEventNotEditable
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Venue = in.Venue
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.MaxAttendees = in.MaxAttendees
	event.Price = in.Price
	event.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, organizerID, eventID int64) (domain.Event, error) {
	return s.getOwned(ctx, organizerID, eventID)
}

func (s *EventService) ListEvents(ctx context.Context, organizerID int64, status *domain.EventStatus) ([]domain.Event, error) {
	if organizerID <= 0 {
		return nil, domain.ErrInvalidOrganizer
	}
	return s.repo.ListEvents(ctx, organizerID, status)
}

// TransitionEvent moves an event along the review lifecycle, rejecting any
// move not in the legal transition table.
func (s *EventService) TransitionEvent(ctx context.Context, organizerID, eventID int64, next domain.EventStatus) (domain.Event, error) {
	event, err := s.getOwned(ctx, organizerID, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if !event.Status.CanTransitionTo(next) {
		return domain.Event{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	if err := s.repo.UpdateEventStatus(ctx, eventID, next, now); err != nil {
		return domain.Event{}, err
	}
	event.Status = next
	event.UpdatedAt = now
	return event, nil
}

func (s *EventService) ListEventTickets(ctx context.Context, organizerID, eventID int64) ([]domain.Ticket, error) {
	if _, err := s.getOwned(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListEventTickets(ctx, eventID)
}

func (s *EventService) ListEventAttendees(ctx context.Context, organizerID, eventID int64) ([]domain.EventAttendee, error) {
	if _, err := s.getOwned(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListEventAttendees(ctx, eventID)
}

func (s *EventService) getOwned(ctx context.Context, organizerID, eventID int64) (domain.Event, error) {
	if organizerID <= 0 {
		return domain.Event{}, domain.ErrInvalidOrganizer
	}
	if eventID <= 0 {
		return domain.Event{}, domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganizerID != organizerID {
		return domain.Event{}, domain.ErrEventForbidden
	}
	return event, nil
}
