package service

import (
	"context"
	"testing"
	"time"

	"eventhub-api/core/constants"
	"eventhub-api/core/errors"
	"eventhub-api/core/utils"
	authentity "eventhub-api/modules/auth/entity"
	"eventhub-api/modules/event/dto"
	"eventhub-api/modules/event/entity"
	notifentity "eventhub-api/modules/notification/entity"

	"github.com/google/uuid"
)

func newEventServiceForTest(repo *fakeEventRepo, notifier *fakeNotifier) *EventService {
	svc := &EventService{repo: repo, now: fixedNow}
	if notifier != nil {
		svc.notifier = notifier
	}
	return svc
}

func organizerClaims() *utils.TokenClaims {
	return &utils.TokenClaims{UserID: uuid.New(), Role: string(authentity.RoleOrganizer)}
}

func attendeeClaims() *utils.TokenClaims {
	return &utils.TokenClaims{UserID: uuid.New(), Role: string(authentity.RoleAttendee)}
}

func TestCreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()
	starts := fixedNow().Add(48 * time.Hour)

	resp, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:    "  Go Conf 2026  ",
		StartsAt: &starts,
	})
	if appErr != nil {
		t.Fatalf("create: %+v", appErr)
	}
	if resp.Title != "Go Conf 2026" {
		t.Fatalf("title = %q", resp.Title)
	}
	if resp.Slug != "go-conf-2026" {
		t.Fatalf("slug = %q", resp.Slug)
	}
	if resp.Status != entity.EventStatusDraft {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.JoinCode == "" {
		t.Fatal("organizer response must include the join code")
	}
	if resp.RSVPCount != 1 {
		t.Fatalf("rsvp count = %d, want host counted", resp.RSVPCount)
	}

	att, _ := repo.GetAttendance(context.Background(), resp.ID, actor.UserID)
	if att == nil || att.Role != entity.AttendanceRoleHost || att.Status != entity.AttendanceStatusRSVPed {
		t.Fatalf("host attendance = %+v", att)
	}
}

func TestCreateEventRejections(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	starts := fixedNow().Add(time.Hour)
	badCapacity := 0
	badDeadline := starts.Add(time.Minute)

	if _, appErr := svc.CreateEvent(context.Background(), attendeeClaims(), &dto.CreateEventRequest{Title: "x"}); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("attendee create = %+v", appErr)
	}

	actor := organizerClaims()
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{Title: "   "}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("blank title = %+v", appErr)
	}
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{Title: "x", Capacity: &badCapacity}); appErr == nil || appErr.Reason != ReasonInvalidCapacity {
		t.Fatalf("zero capacity = %+v", appErr)
	}
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:        "x",
		StartsAt:     &starts,
		RSVPDeadline: &badDeadline,
	}); appErr == nil || appErr.Reason != ReasonInvalidTimeRange {
		t.Fatalf("deadline after start = %+v", appErr)
	}
}

func TestCreateEventPublishedDirectly(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()
	published := "published"
	starts := fixedNow().Add(48 * time.Hour)

	resp, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:    "Launch Party",
		StartsAt: &starts,
		Status:   &published,
	})
	if appErr != nil {
		t.Fatalf("create published: %+v", appErr)
	}
	if resp.Status != entity.EventStatusPublished {
		t.Fatalf("status = %q", resp.Status)
	}

	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:  "No start",
		Status: &published,
	}); appErr == nil || appErr.Reason != ReasonStartsAtRequired {
		t.Fatalf("published without starts_at = %+v", appErr)
	}

	past := fixedNow().Add(-time.Minute)
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:    "Too late",
		StartsAt: &past,
		Status:   &published,
	}); appErr == nil || appErr.Reason != ReasonStartsAtInPast {
		t.Fatalf("published in the past = %+v", appErr)
	}

	cancelled := "CANCELLED"
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:  "Stillborn",
		Status: &cancelled,
	}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("cancelled on create = %+v", appErr)
	}
}

func TestCreateEventWithSuppliedJoinCode(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()
	code := " ab12cd34 "

	resp, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:    "Private Dinner",
		JoinCode: &code,
	})
	if appErr != nil {
		t.Fatalf("create: %+v", appErr)
	}
	if resp.JoinCode != "AB12CD34" {
		t.Fatalf("join code = %q", resp.JoinCode)
	}

	// The same code again collides.
	if _, appErr := svc.CreateEvent(context.Background(), actor, &dto.CreateEventRequest{
		Title:    "Second Dinner",
		JoinCode: &code,
	}); appErr == nil || appErr.Reason != ReasonJoinCodeCollision {
		t.Fatalf("duplicate code = %+v", appErr)
	}
}

func TestPublishEventGuards(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()

	event := &entity.Event{Status: entity.EventStatusDraft, OrganizerID: actor.UserID}
	repo.addEvent(event)

	if _, appErr := svc.PublishEvent(context.Background(), actor, event.ID); appErr == nil || appErr.Reason != ReasonStartsAtRequired {
		t.Fatalf("publish without starts_at = %+v", appErr)
	}

	past := fixedNow().Add(-time.Minute)
	event.StartsAt = &past
	if _, appErr := svc.PublishEvent(context.Background(), actor, event.ID); appErr == nil || appErr.Reason != ReasonStartsAtInPast {
		t.Fatalf("publish in the past = %+v", appErr)
	}

	future := fixedNow().Add(time.Hour)
	event.StartsAt = &future
	resp, appErr := svc.PublishEvent(context.Background(), actor, event.ID)
	if appErr != nil {
		t.Fatalf("publish: %+v", appErr)
	}
	if resp.Status != entity.EventStatusPublished {
		t.Fatalf("status = %q", resp.Status)
	}

	if _, appErr := svc.CancelEvent(context.Background(), actor, event.ID); appErr != nil {
		t.Fatalf("cancel: %+v", appErr)
	}
	if _, appErr := svc.PublishEvent(context.Background(), actor, event.ID); appErr == nil || appErr.Reason != ReasonEventCancelled {
		t.Fatalf("publish after cancel = %+v", appErr)
	}
}

func TestUpdateEventGuards(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()

	starts := fixedNow().Add(24 * time.Hour)
	capacity := 10
	event := &entity.Event{
		Status:      entity.EventStatusPublished,
		StartsAt:    &starts,
		Capacity:    &capacity,
		OrganizerID: actor.UserID,
	}
	repo.addEvent(event)
	for i := 0; i < 3; i++ {
		repo.addAttendance(event.ID, uuid.New(), entity.AttendanceRoleAttendee, entity.AttendanceStatusRSVPed)
	}

	lower := 2
	if _, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{Capacity: &lower}); appErr == nil || appErr.Reason != ReasonCapacityBelowCount {
		t.Fatalf("capacity below count = %+v", appErr)
	}

	soon := fixedNow().Add(2 * time.Minute)
	if _, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{StartsAt: &soon}); appErr == nil || appErr.Reason != ReasonStartsAtTooSoon {
		t.Fatalf("starts_at too soon = %+v", appErr)
	}

	badEnd := starts.Add(-time.Hour)
	if _, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{EndsAt: &badEnd}); appErr == nil || appErr.Reason != ReasonInvalidTimeRange {
		t.Fatalf("ends before starts = %+v", appErr)
	}

	if _, appErr := svc.UpdateEvent(context.Background(), attendeeClaims(), event.ID, &dto.UpdateEventRequest{}); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("non-owner update = %+v", appErr)
	}

	later := starts.Add(time.Hour)
	ok := 5
	resp, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{StartsAt: &later, Capacity: &ok})
	if appErr != nil {
		t.Fatalf("valid update: %+v", appErr)
	}
	if resp.StartsAt == nil || !resp.StartsAt.Equal(later) {
		t.Fatalf("starts_at = %v", resp.StartsAt)
	}
	if resp.Capacity == nil || *resp.Capacity != ok {
		t.Fatalf("capacity = %v", resp.Capacity)
	}
}

func TestPublishEventIgnoresStaleCache(t *testing.T) {
	repo := newFakeEventRepo()
	c := newFakeCache()
	svc := &EventService{repo: repo, cache: c, now: fixedNow}
	actor := organizerClaims()

	starts := fixedNow().Add(time.Hour)
	event := &entity.Event{Status: entity.EventStatusCancelled, StartsAt: &starts, OrganizerID: actor.UserID}
	repo.addEvent(event)

	// A reader cached the event before it was cancelled.
	stale := *event
	stale.Status = entity.EventStatusDraft
	if err := c.SetJSON(context.Background(), constants.RedisKeyEventCache+event.ID.String(), &stale, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if _, appErr := svc.PublishEvent(context.Background(), actor, event.ID); appErr == nil || appErr.Reason != ReasonEventCancelled {
		t.Fatalf("publish over stale cache = %+v", appErr)
	}
	stored, _ := repo.GetEventByID(context.Background(), event.ID)
	if stored.Status != entity.EventStatusCancelled {
		t.Fatalf("stored status = %q", stored.Status)
	}
}

func TestUpdateStartsAtInsideBufferWithRSVPs(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()

	starts := fixedNow().Add(2 * time.Minute)
	event := &entity.Event{Status: entity.EventStatusPublished, StartsAt: &starts, OrganizerID: actor.UserID}
	repo.addEvent(event)
	repo.addAttendance(event.ID, uuid.New(), entity.AttendanceRoleAttendee, entity.AttendanceStatusRSVPed)

	// Later than the current start, yet still inside the buffer.
	patched := fixedNow().Add(3 * time.Minute)
	if _, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{StartsAt: &patched}); appErr == nil || appErr.Reason != ReasonStartsAtTooSoon {
		t.Fatalf("starts_at inside buffer = %+v", appErr)
	}
}

func TestUpdateCancelledEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	actor := organizerClaims()

	event := &entity.Event{Status: entity.EventStatusCancelled, OrganizerID: actor.UserID}
	repo.addEvent(event)

	title := "new title"
	if _, appErr := svc.UpdateEvent(context.Background(), actor, event.ID, &dto.UpdateEventRequest{Title: &title}); appErr == nil || appErr.Reason != ReasonEventCancelled {
		t.Fatalf("update cancelled = %+v", appErr)
	}
}

func TestCancelEventNotifiesAttendees(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &fakeNotifier{}
	svc := newEventServiceForTest(repo, notifier)
	actor := organizerClaims()

	event := &entity.Event{Status: entity.EventStatusPublished, OrganizerID: actor.UserID, Title: "Meetup"}
	repo.addEvent(event)
	repo.addAttendance(event.ID, actor.UserID, entity.AttendanceRoleHost, entity.AttendanceStatusRSVPed)
	attendee := uuid.New()
	repo.addAttendance(event.ID, attendee, entity.AttendanceRoleAttendee, entity.AttendanceStatusRSVPed)
	repo.addAttendance(event.ID, uuid.New(), entity.AttendanceRoleAttendee, entity.AttendanceStatusCancelled)

	resp, appErr := svc.CancelEvent(context.Background(), actor, event.ID)
	if appErr != nil {
		t.Fatalf("cancel: %+v", appErr)
	}
	if resp.Status != entity.EventStatusCancelled || resp.CancelledAt == nil {
		t.Fatalf("response = %+v", resp)
	}

	if len(notifier.recipients) != 1 || notifier.recipients[0] != attendee {
		t.Fatalf("notified = %v, want only the active attendee", notifier.recipients)
	}
	if notifier.kinds[0] != notifentity.TypeEventCancelled {
		t.Fatalf("kind = %q", notifier.kinds[0])
	}

	// Idempotent: a second cancel is a no-op and sends nothing more.
	if _, appErr := svc.CancelEvent(context.Background(), actor, event.ID); appErr != nil {
		t.Fatalf("second cancel: %+v", appErr)
	}
	if len(notifier.recipients) != 1 {
		t.Fatalf("notified again: %v", notifier.recipients)
	}
}

func TestGetEventVisibility(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)
	owner := organizerClaims()

	draft := &entity.Event{Status: entity.EventStatusDraft, OrganizerID: owner.UserID, JoinCode: "ABC12345"}
	repo.addEvent(draft)

	if _, appErr := svc.GetEvent(context.Background(), attendeeClaims(), draft.ID); appErr == nil || appErr.Reason != ReasonEventNotFound {
		t.Fatalf("draft visible to stranger: %+v", appErr)
	}

	resp, appErr := svc.GetEvent(context.Background(), owner, draft.ID)
	if appErr != nil {
		t.Fatalf("owner get: %+v", appErr)
	}
	if resp.JoinCode == "" {
		t.Fatal("owner must see the join code")
	}

	admin := &utils.TokenClaims{UserID: uuid.New(), Role: string(authentity.RoleAdmin)}
	if _, appErr := svc.GetEvent(context.Background(), admin, draft.ID); appErr != nil {
		t.Fatalf("admin get: %+v", appErr)
	}
}

func TestGetEventByJoinCode(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil)

	published := &entity.Event{Status: entity.EventStatusPublished, OrganizerID: uuid.New(), JoinCode: "XY12AB34"}
	repo.addEvent(published)
	draft := &entity.Event{Status: entity.EventStatusDraft, OrganizerID: uuid.New(), JoinCode: "ZZ99ZZ99"}
	repo.addEvent(draft)

	resp, appErr := svc.GetEventByJoinCode(context.Background(), " xy12ab34 ")
	if appErr != nil {
		t.Fatalf("lookup: %+v", appErr)
	}
	if resp.ID != published.ID {
		t.Fatalf("got event %v", resp.ID)
	}
	if resp.JoinCode != "" {
		t.Fatal("join code lookup must not echo the code back")
	}

	if _, appErr := svc.GetEventByJoinCode(context.Background(), "ZZ99ZZ99"); appErr == nil || appErr.Reason != ReasonEventNotFound {
		t.Fatalf("draft by code = %+v", appErr)
	}
	if _, appErr := svc.GetEventByJoinCode(context.Background(), "  "); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("blank code = %+v", appErr)
	}
}
