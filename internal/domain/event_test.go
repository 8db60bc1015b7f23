package domain

import "testing"

func TestEventStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	legal := []struct {
		from, to EventStatus
	}{
		{EventStatusDraft, EventStatusPending},
		{EventStatusPending, EventStatusApproved},
		{EventStatusPending, EventStatusRejected},
		{EventStatusPending, EventStatusDraft},
		{EventStatusRejected, EventStatusPending},
	}
	for _, tt := range legal {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be legal", tt.from, tt.to)
		}
	}

	illegal := []struct {
		from, to EventStatus
	}{
		{EventStatusDraft, EventStatusApproved},
		{EventStatusDraft, EventStatusRejected},
		{EventStatusApproved, EventStatusDraft},
		{EventStatusApproved, EventStatusPending},
		{EventStatusApproved, EventStatusRejected},
		{EventStatusRejected, EventStatusDraft},
		{EventStatusRejected, EventStatusApproved},
		{EventStatusDraft, EventStatusDraft},
		{EventStatusPending, EventStatusPending},
	}
	for _, tt := range illegal {
		if tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be illegal", tt.from, tt.to)
		}
	}
}

func TestParseEventStatus(t *testing.T) {
	t.Parallel()

	if _, ok := ParseEventStatus("archived"); ok {
		t.Fatalf("expected archived to be rejected")
	}
	status, ok := ParseEventStatus("pending")
	if !ok || status != EventStatusPending {
		t.Fatalf("expected pending, got %q (ok=%v)", status, ok)
	}
}
