package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"eventhub-api/core/database"
	"eventhub-api/core/errors"
	"eventhub-api/modules/event/entity"
	"eventhub-api/modules/event/repository"
	notifdto "eventhub-api/modules/notification/dto"
	notifentity "eventhub-api/modules/notification/entity"

	"github.com/google/uuid"
)

// fakeEventRepo is an in-memory EventRepositoryInterface. InRSVPTx serializes
// on a mutex, standing in for the event row lock.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
	atts   map[uuid.UUID]map[uuid.UUID]*entity.Attendance

	// insertRace makes InsertAttendance behave like a lost insert race: the
	// competing writer's row lands, the caller gets a unique violation.
	insertRace bool
	updateErr  error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[uuid.UUID]*entity.Event),
		atts:   make(map[uuid.UUID]map[uuid.UUID]*entity.Attendance),
	}
}

func (f *fakeEventRepo) addEvent(event *entity.Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events[event.ID] = event
}

func (f *fakeEventRepo) addAttendance(eventID, userID uuid.UUID, role string, status entity.AttendanceStatus) {
	if f.atts[eventID] == nil {
		f.atts[eventID] = make(map[uuid.UUID]*entity.Attendance)
	}
	f.atts[eventID][userID] = &entity.Attendance{
		EventID: eventID,
		UserID:  userID,
		Role:    role,
		Status:  status,
	}
}

func (f *fakeEventRepo) CreateEventWithHost(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.events {
		if existing.JoinCode == event.JoinCode {
			return nil, database.ErrUniqueViolation
		}
	}
	event.ID = uuid.New()
	f.events[event.ID] = event
	f.addAttendance(event.ID, event.OrganizerID, entity.AttendanceRoleHost, entity.AttendanceStatusRSVPed)
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) GetEventByJoinCode(ctx context.Context, joinCode string) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.JoinCode == joinCode {
			copied := *event
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) ListPublished(ctx context.Context) ([]entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Event
	for _, event := range f.events {
		if event.Status == entity.EventStatusPublished {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Event
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) CountRSVPed(ctx context.Context, eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(eventID), nil
}

func (f *fakeEventRepo) GetAttendance(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	att, ok := f.atts[eventID][userID]
	if !ok {
		return nil, nil
	}
	copied := *att
	return &copied, nil
}

func (f *fakeEventRepo) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]entity.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Attendance
	for _, att := range f.atts[eventID] {
		out = append(out, *att)
	}
	return out, nil
}

func (f *fakeEventRepo) InRSVPTx(ctx context.Context, eventID uuid.UUID, fn func(tx repository.RSVPTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(&fakeRSVPTx{repo: f, eventID: eventID})
}

func (f *fakeEventRepo) countLocked(eventID uuid.UUID) int {
	count := 0
	for _, att := range f.atts[eventID] {
		if att.Status == entity.AttendanceStatusRSVPed {
			count++
		}
	}
	return count
}

// fakeCache is an in-memory ICache holding JSON blobs.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	return nil
}

func (f *fakeCache) IsLoginBlocked(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (f *fakeCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return false, nil
}

// fakeNotifier records fan-out calls.
type fakeNotifier struct {
	mu         sync.Mutex
	recipients []uuid.UUID
	kinds      []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, userID)
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, data map[string]interface{}) {
	for _, id := range userIDs {
		_ = f.Notify(ctx, id, kind, title, message, data)
	}
}

func (f *fakeNotifier) GetMyNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int) (*notifentity.PaginatedNotificationEntity, *errors.AppError) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(ctx context.Context, userID uuid.UUID, req *notifdto.MarkAsReadRequest) *errors.AppError {
	return nil
}

func (f *fakeNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	return nil
}

func (f *fakeNotifier) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	return 0, nil
}

type fakeRSVPTx struct {
	repo    *fakeEventRepo
	eventID uuid.UUID
}

func (tx *fakeRSVPTx) EventForUpdate(ctx context.Context) (*entity.Event, error) {
	event, ok := tx.repo.events[tx.eventID]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (tx *fakeRSVPTx) Attendance(ctx context.Context, userID uuid.UUID) (*entity.Attendance, error) {
	att, ok := tx.repo.atts[tx.eventID][userID]
	if !ok {
		return nil, nil
	}
	copied := *att
	return &copied, nil
}

func (tx *fakeRSVPTx) CountRSVPed(ctx context.Context) (int, error) {
	return tx.repo.countLocked(tx.eventID), nil
}

func (tx *fakeRSVPTx) InsertAttendance(ctx context.Context, userID uuid.UUID, role string) error {
	if _, ok := tx.repo.atts[tx.eventID][userID]; ok {
		return database.ErrUniqueViolation
	}
	tx.repo.addAttendance(tx.eventID, userID, role, entity.AttendanceStatusRSVPed)
	if tx.repo.insertRace {
		return database.ErrUniqueViolation
	}
	return nil
}

func (tx *fakeRSVPTx) SetAttendanceStatus(ctx context.Context, userID uuid.UUID, status entity.AttendanceStatus, cancelledAt *time.Time) error {
	att, ok := tx.repo.atts[tx.eventID][userID]
	if !ok {
		return nil
	}
	att.Status = status
	att.CancelledAt = cancelledAt
	return nil
}
