package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	const stmt = `
INSERT INTO events (organizer_id, title, description, venue, status, starts_at, ends_at, max_attendees, price, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`
	err := r.pool.QueryRow(ctx, stmt,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Venue,
		event.Status,
		event.StartsAt,
		event.EndsAt,
		event.MaxAttendees,
		event.Price,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Event{}, domain.ErrInvalidOrganizer
		}
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET title = $2, description = $3, venue = $4, starts_at = $5, ends_at = $6,
	max_attendees = $7, price = $8, updated_at = $9
WHERE id = $1`
	tag, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Venue,
		event.StartsAt,
		event.EndsAt,
		event.MaxAttendees,
		event.Price,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) UpdateEventStatus(ctx context.Context, eventID int64, status domain.EventStatus, updatedAt time.Time) error {
	const stmt = `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, stmt, eventID, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID int64) (domain.Event, error) {
	const query = `
SELECT id, organizer_id, title, description, venue, status, starts_at, ends_at, max_attendees, price, created_at, updated_at
FROM events
WHERE id = $1`
	var e domain.Event
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&e.ID,
		&e.OrganizerID,
		&e.Title,
		&e.Description,
		&e.Venue,
		&e.Status,
		&e.StartsAt,
		&e.EndsAt,
		&e.MaxAttendees,
		&e.Price,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, organizerID int64, status *domain.EventStatus) ([]domain.Event, error) {
	const all = `
SELECT id, organizer_id, title, description, venue, status, starts_at, ends_at, max_attendees, price, created_at, updated_at
FROM events
WHERE organizer_id = $1
ORDER BY created_at DESC`
	const byStatus = `
SELECT id, organizer_id, title, description, venue, status, starts_at, ends_at, max_attendees, price, created_at, updated_at
FROM events
WHERE organizer_id = $1 AND status = $2
ORDER BY created_at DESC`

	query := all
	args := []any{organizerID}
	if status != nil {
		query = byStatus
		args = append(args, *status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.OrganizerID,
			&e.Title,
			&e.Description,
			&e.Venue,
			&e.Status,
			&e.StartsAt,
			&e.EndsAt,
			&e.MaxAttendees,
			&e.Price,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) ListEventTickets(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	const query = `
SELECT id, event_id, user_id, price_paid, payment_status, payment_method, status, created_at
FROM tickets
WHERE event_id = $1
ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.EventID,
			&t.UserID,
			&t.PricePaid,
			&t.PaymentStatus,
			&t.PaymentMethod,
			&t.Status,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tickets: %w", rows.Err())
	}
	return tickets, nil
}

func (r *EventRepository) ListEventAttendees(ctx context.Context, eventID int64) ([]domain.EventAttendee, error) {
	const query = `
SELECT u.id, u.name, u.email, t.id, t.status, t.payment_status, t.created_at
FROM tickets t
JOIN users u ON u.id = t.user_id
WHERE t.event_id = $1
ORDER BY t.created_at ASC`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event attendees: %w", err)
	}
	defer rows.Close()

	var attendees []domain.EventAttendee
	for rows.Next() {
		var a domain.EventAttendee
		if err := rows.Scan(
			&a.UserID,
			&a.Name,
			&a.Email,
			&a.TicketID,
			&a.TicketStatus,
			&a.PaymentStatus,
			&a.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate attendees: %w", rows.Err())
	}
	return attendees, nil
}
