package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
	"github.com/University-Of-Livingstonia/EMS-sub000/internal/testutil"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	organizer := testutil.InsertUser(t, ctx, pool, "organizer", domain.RoleOrganizer, "", nil)
	repo := NewEventRepository(pool)

	now := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	created, err := repo.CreateEvent(ctx, domain.Event{
		OrganizerID:  organizer,
		Title:        "Science expo",
		Description:  "Annual showcase",
		Venue:        "Main hall",
		Status:       domain.EventStatusDraft,
		StartsAt:     now.AddDate(0, 0, 14),
		EndsAt:       now.AddDate(0, 0, 14).Add(6 * time.Hour),
		MaxAttendees: 300,
		Price:        10,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := repo.GetEvent(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Science expo" || got.Status != domain.EventStatusDraft || got.MaxAttendees != 300 {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Price != 10 {
		t.Fatalf("unexpected price: %v", got.Price)
	}

	if _, err := repo.GetEvent(ctx, 999999); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepository_CreateUnknownOrganizer(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)

	now := time.Now().UTC()
	_, err := repo.CreateEvent(ctx, domain.Event{
		OrganizerID:  424242,
		Title:        "Ghost event",
		Status:       domain.EventStatusDraft,
		StartsAt:     now,
		EndsAt:       now.Add(time.Hour),
		MaxAttendees: 10,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, domain.ErrInvalidOrganizer) {
		t.Fatalf("expected ErrInvalidOrganizer, got %v", err)
	}
}

func TestEventRepository_UpdateEvent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	organizer := testutil.InsertUser(t, ctx, pool, "organizer", domain.RoleOrganizer, "", nil)
	eventID := testutil.InsertEvent(t, ctx, pool, organizer, "Old title", 50, time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC))

	repo := NewEventRepository(pool)

	event, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event.Title = "New title"
	event.MaxAttendees = 75
	event.UpdatedAt = time.Date(2025, 2, 6, 9, 0, 0, 0, time.UTC)

	if err := repo.UpdateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "New title" || got.MaxAttendees != 75 {
		t.Fatalf("update not persisted: %+v", got)
	}

	event.ID = 999999
	if err := repo.UpdateEvent(ctx, event); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepository_UpdateEventStatus(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	organizer := testutil.InsertUser(t, ctx, pool, "organizer", domain.RoleOrganizer, "", nil)
	eventID := testutil.InsertEvent(t, ctx, pool, organizer, "Reviewed event", 50, time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC))

	repo := NewEventRepository(pool)
	updatedAt := time.Date(2025, 2, 7, 9, 0, 0, 0, time.UTC)

	if err := repo.UpdateEventStatus(ctx, eventID, domain.EventStatusRejected, updatedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.EventStatusRejected {
		t.Fatalf("status not persisted: %+v", got)
	}
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("updated_at not persisted: %v", got.UpdatedAt)
	}

	if err := repo.UpdateEventStatus(ctx, 999999, domain.EventStatusPending, updatedAt); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepository_ListEvents(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	organizerA := testutil.InsertUser(t, ctx, pool, "organizer-a", domain.RoleOrganizer, "", nil)
	organizerB := testutil.InsertUser(t, ctx, pool, "organizer-b", domain.RoleOrganizer, "", nil)

	first := testutil.InsertEvent(t, ctx, pool, organizerA, "First", 50, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))
	second := testutil.InsertEvent(t, ctx, pool, organizerA, "Second", 50, time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC))
	testutil.InsertEvent(t, ctx, pool, organizerB, "Other tenant", 50, time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC))

	repo := NewEventRepository(pool)

	events, err := repo.ListEvents(ctx, organizerA, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].ID != second || events[1].ID != first {
		t.Fatalf("unexpected order: %+v", events)
	}

	draft := domain.EventStatusDraft
	filtered, err := repo.ListEvents(ctx, organizerA, &draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("seeded events are approved, expected none: %+v", filtered)
	}
}

func TestEventRepository_TicketsAndAttendees(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	organizer := testutil.InsertUser(t, ctx, pool, "organizer", domain.RoleOrganizer, "", nil)
	attendee := testutil.InsertUser(t, ctx, pool, "dana", domain.RoleAttendee, "female", nil)
	eventID := testutil.InsertEvent(t, ctx, pool, organizer, "Concert", 100, time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC))

	registeredAt := time.Date(2025, 2, 6, 10, 0, 0, 0, time.UTC)
	ticketID := testutil.InsertTicket(t, ctx, pool, domain.Ticket{
		EventID:       eventID,
		UserID:        attendee,
		PricePaid:     15,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaymentMethod: "card",
		Status:        domain.TicketStatusConfirmed,
		CreatedAt:     registeredAt,
	})

	repo := NewEventRepository(pool)

	tickets, err := repo.ListEventTickets(ctx, eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != ticketID || tickets[0].PricePaid != 15 {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}

	attendees, err := repo.ListEventAttendees(ctx, eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attendees) != 1 {
		t.Fatalf("expected 1 attendee, got %d", len(attendees))
	}
	a := attendees[0]
	if a.UserID != attendee || a.Name != "dana" || a.TicketID != ticketID {
		t.Fatalf("unexpected attendee: %+v", a)
	}
	if a.TicketStatus != domain.TicketStatusConfirmed || a.PaymentStatus != domain.PaymentStatusCompleted {
		t.Fatalf("unexpected ticket state: %+v", a)
	}
	if !a.RegisteredAt.Equal(registeredAt) {
		t.Fatalf("unexpected registration time: %v", a.RegisteredAt)
	}
}
