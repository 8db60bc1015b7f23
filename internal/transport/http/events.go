package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/app"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// EventManager is the minimal interface the event endpoints need.
type EventManager interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, in app.UpdateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, organizerID, eventID int64) (domain.Event, error)
	ListEvents(ctx context.Context, organizerID int64, status *domain.EventStatus) ([]domain.Event, error)
	TransitionEvent(ctx context.Context, organizerID, eventID int64, next domain.EventStatus) (domain.Event, error)
	ListEventTickets(ctx context.Context, organizerID, eventID int64) ([]domain.Ticket, error)
	ListEventAttendees(ctx context.Context, organizerID, eventID int64) ([]domain.EventAttendee, error)
}

// HandleEvents serves the /events collection: list and create.
func HandleEvents(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organizerID, ok := organizerFromRequest(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			var status *domain.EventStatus
			if raw := r.URL.Query().Get("status"); raw != "" {
				parsed, ok := domain.ParseEventStatus(raw)
				if !ok {
					writeError(w, http.StatusBadRequest, codeInvalidStatus, "unknown event status")
					return
				}
				status = &parsed
			}
			events, err := svc.ListEvents(r.Context(), organizerID, status)
			if err != nil {
				writeEventError(w, err)
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, eventResponseFrom(event))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req eventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			in, ok := req.toCreateInput(w, organizerID)
			if !ok {
				return
			}
			event, err := svc.CreateEvent(r.Context(), in)
			if err != nil {
				writeEventError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleEventByID serves /events/{id} and its status, tickets and attendees
// subresources.
func HandleEventByID(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, sub, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		organizerID, authed := organizerFromRequest(w, r)
		if !authed {
			return
		}

		switch sub {
		case "":
			handleEventResource(w, r, svc, organizerID, eventID)
		case "status":
			handleEventStatus(w, r, svc, organizerID, eventID)
		case "tickets":
			handleEventTickets(w, r, svc, organizerID, eventID)
		case "attendees":
			handleEventAttendees(w, r, svc, organizerID, eventID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleEventResource(w http.ResponseWriter, r *http.Request, svc EventManager, organizerID, eventID int64) {
	switch r.Method {
	case http.MethodGet:
		event, err := svc.GetEvent(r.Context(), organizerID, eventID)
		if err != nil {
			writeEventError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
	case http.MethodPatch:
		var req eventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		in, ok := req.toUpdateInput(w, organizerID, eventID)
		if !ok {
			return
		}
		event, err := svc.UpdateEvent(r.Context(), in)
		if err != nil {
			writeEventError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func handleEventStatus(w http.ResponseWriter, r *http.Request, svc EventManager, organizerID, eventID int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	var req transitionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	next, ok := domain.ParseEventStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, codeInvalidStatus, "unknown event status")
		return
	}
	event, err := svc.TransitionEvent(r.Context(), organizerID, eventID, next)
	if err != nil {
		writeEventError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
}

func handleEventTickets(w http.ResponseWriter, r *http.Request, svc EventManager, organizerID, eventID int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	tickets, err := svc.ListEventTickets(r.Context(), organizerID, eventID)
	if err != nil {
		writeEventError(w, err)
		return
	}
	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ticketResponse{
			ID:            t.ID,
			EventID:       t.EventID,
			UserID:        t.UserID,
			PricePaid:     t.PricePaid,
			PaymentStatus: string(t.PaymentStatus),
			PaymentMethod: t.PaymentMethod,
			Status:        string(t.Status),
			CreatedAt:     t.CreatedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func handleEventAttendees(w http.ResponseWriter, r *http.Request, svc EventManager, organizerID, eventID int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	attendees, err := svc.ListEventAttendees(r.Context(), organizerID, eventID)
	if err != nil {
		writeEventError(w, err)
		return
	}
	resp := make([]attendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		resp = append(resp, attendeeResponse{
			UserID:        a.UserID,
			Name:          a.Name,
			Email:         a.Email,
			TicketID:      a.TicketID,
			TicketStatus:  string(a.TicketStatus),
			PaymentStatus: string(a.PaymentStatus),
			RegisteredAt:  a.RegisteredAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeEventError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidOrganizer:
		writeError(w, http.StatusBadRequest, codeOrganizerRequired, err.Error())
	case domain.ErrTitleRequired:
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case domain.ErrInvalidCapacity:
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidSchedule:
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidEventID, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrEventForbidden:
		writeError(w, http.StatusForbidden, codeEventForbidden, err.Error())
	case domain.ErrInvalidTransition:
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case domain.ErrEventNotEditable:
		writeError(w, http.StatusConflict, codeEventNotEditable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type eventRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Venue        string  `json:"venue"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       string  `json:"ends_at"`
	MaxAttendees int     `json:"max_attendees"`
	Price        float64 `json:"price"`
}

func (req eventRequest) schedule(w http.ResponseWriter) (start, end time.Time, ok bool) {
	start, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, "invalid starts_at format")
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, "invalid ends_at format")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (req eventRequest) toCreateInput(w http.ResponseWriter, organizerID int64) (app.CreateEventInput, bool) {
	start, end, ok := req.schedule(w)
	if !ok {
		return app.CreateEventInput{}, false
	}
	return app.CreateEventInput{
		OrganizerID:  organizerID,
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		StartsAt:     start,
		EndsAt:       end,
		MaxAttendees: req.MaxAttendees,
		Price:        req.Price,
	}, true
}

func (req eventRequest) toUpdateInput(w http.ResponseWriter, organizerID, eventID int64) (app.UpdateEventInput, bool) {
	start, end, ok := req.schedule(w)
	if !ok {
		return app.UpdateEventInput{}, false
	}
	return app.UpdateEventInput{
		OrganizerID:  organizerID,
		EventID:      eventID,
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		StartsAt:     start,
		EndsAt:       end,
		MaxAttendees: req.MaxAttendees,
		Price:        req.Price,
	}, true
}

type transitionRequest struct {
	Status string `json:"status"`
}

type eventResponse struct {
	ID           int64     `json:"id"`
	OrganizerID  int64     `json:"organizer_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Venue        string    `json:"venue"`
	Status       string    `json:"status"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	MaxAttendees int       `json:"max_attendees"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func eventResponseFrom(event domain.Event) eventResponse {
	return eventResponse{
		ID:           event.ID,
		OrganizerID:  event.OrganizerID,
		Title:        event.Title,
		Description:  event.Description,
		Venue:        event.Venue,
		Status:       string(event.Status),
		StartsAt:     event.StartsAt,
		EndsAt:       event.EndsAt,
		MaxAttendees: event.MaxAttendees,
		Price:        event.Price,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}
}

type ticketResponse struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"event_id"`
	UserID        int64     `json:"user_id"`
	PricePaid     float64   `json:"price_paid"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type attendeeResponse struct {
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	TicketID      int64     `json:"ticket_id"`
	TicketStatus  string    `json:"ticket_status"`
	PaymentStatus string    `json:"payment_status"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// parseEventPath splits /events/{id}[/sub] into the event ID and optional
// subresource name.
func parseEventPath(path string) (int64, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "events" {
		return 0, "", false
	}
	eventID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || eventID <= 0 {
		return 0, "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return 0, "", false
		}
		return eventID, parts[2], true
	}
	return eventID, "", true
}
