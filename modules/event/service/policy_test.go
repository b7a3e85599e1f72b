package service

import (
	"testing"
	"time"

	"eventhub-api/modules/event/entity"
)

func tp(t time.Time) *time.Time { return &t }

func TestCanRSVP(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name  string
		event entity.Event
		want  string
	}{
		{
			name:  "published future event",
			event: entity.Event{Status: entity.EventStatusPublished, StartsAt: tp(future)},
			want:  "",
		},
		{
			name:  "draft event",
			event: entity.Event{Status: entity.EventStatusDraft, StartsAt: tp(future)},
			want:  ReasonEventNotPublished,
		},
		{
			name:  "cancelled event",
			event: entity.Event{Status: entity.EventStatusCancelled, StartsAt: tp(future)},
			want:  ReasonEventCancelled,
		},
		{
			name:  "started event",
			event: entity.Event{Status: entity.EventStatusPublished, StartsAt: tp(past)},
			want:  ReasonRSVPCutoffPassed,
		},
		{
			name: "deadline before start",
			event: entity.Event{
				Status:       entity.EventStatusPublished,
				StartsAt:     tp(future),
				RSVPDeadline: tp(past),
			},
			want: ReasonRSVPCutoffPassed,
		},
		{
			name: "deadline only, still open",
			event: entity.Event{
				Status:       entity.EventStatusPublished,
				RSVPDeadline: tp(future),
			},
			want: "",
		},
		{
			name:  "no times at all",
			event: entity.Event{Status: entity.EventStatusPublished},
			want:  "",
		},
		{
			name: "cutoff exactly now",
			event: entity.Event{
				Status:   entity.EventStatusPublished,
				StartsAt: tp(now),
			},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanRSVP(&tc.event, now); got != tc.want {
				t.Fatalf("CanRSVP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRSVPCutoffPicksEarlier(t *testing.T) {
	starts := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	deadline := starts.Add(-2 * time.Hour)

	event := entity.Event{StartsAt: tp(starts), RSVPDeadline: tp(deadline)}
	cutoff, ok := rsvpCutoff(&event)
	if !ok || !cutoff.Equal(deadline) {
		t.Fatalf("cutoff = %v ok=%v, want %v", cutoff, ok, deadline)
	}

	event = entity.Event{StartsAt: tp(starts), RSVPDeadline: tp(starts.Add(time.Hour))}
	cutoff, ok = rsvpCutoff(&event)
	if !ok || !cutoff.Equal(starts) {
		t.Fatalf("cutoff = %v ok=%v, want %v", cutoff, ok, starts)
	}

	if _, ok := rsvpCutoff(&entity.Event{}); ok {
		t.Fatal("expected no cutoff for event without times")
	}
}

func TestValidateTimeBounds(t *testing.T) {
	starts := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	if !validateTimeBounds(tp(starts), tp(starts.Add(time.Hour)), tp(starts.Add(-time.Hour))) {
		t.Fatal("expected valid bounds")
	}
	if validateTimeBounds(tp(starts), tp(starts), nil) {
		t.Fatal("ends_at equal to starts_at must be rejected")
	}
	if validateTimeBounds(tp(starts), tp(starts.Add(-time.Minute)), nil) {
		t.Fatal("ends_at before starts_at must be rejected")
	}
	if validateTimeBounds(tp(starts), nil, tp(starts.Add(time.Minute))) {
		t.Fatal("rsvp_deadline after starts_at must be rejected")
	}
	if !validateTimeBounds(tp(starts), nil, tp(starts)) {
		t.Fatal("rsvp_deadline equal to starts_at is allowed")
	}
	if !validateTimeBounds(nil, tp(starts), tp(starts.Add(time.Hour))) {
		t.Fatal("bounds without starts_at are unconstrained")
	}
}
