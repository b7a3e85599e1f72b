package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"eventhub-api/core/errors"
	"eventhub-api/core/queue"
	"eventhub-api/core/storage"
	authentity "eventhub-api/modules/auth/entity"
	notifdto "eventhub-api/modules/notification/dto"
	notifentity "eventhub-api/modules/notification/entity"
	profiledto "eventhub-api/modules/profile/dto"
	"eventhub-api/modules/resume/entity"
	"eventhub-api/modules/resume/parser"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeResumeRepo struct {
	resumes      map[uuid.UUID]*entity.ResumeVersion
	statusTrail  []entity.ResumeStatus
	markedParsed bool
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: make(map[uuid.UUID]*entity.ResumeVersion)}
}

func (f *fakeResumeRepo) Create(ctx context.Context, resume *entity.ResumeVersion) (*entity.ResumeVersion, error) {
	f.resumes[resume.ID] = resume
	return resume, nil
}

func (f *fakeResumeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ResumeVersion, error) {
	resume, ok := f.resumes[id]
	if !ok {
		return nil, nil
	}
	copied := *resume
	return &copied, nil
}

func (f *fakeResumeRepo) GetByUserAndHash(ctx context.Context, userID uuid.UUID, sha256 string) (*entity.ResumeVersion, error) {
	return nil, nil
}

func (f *fakeResumeRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.ResumeVersion, error) {
	return nil, nil
}

func (f *fakeResumeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ResumeVersion, error) {
	return nil, nil
}

func (f *fakeResumeRepo) SetStatus(ctx context.Context, id uuid.UUID, status entity.ResumeStatus) error {
	f.resumes[id].Status = status
	f.statusTrail = append(f.statusTrail, status)
	return nil
}

func (f *fakeResumeRepo) UpdateFileURI(ctx context.Context, id uuid.UUID, uri string) error {
	f.resumes[id].FileURI = uri
	return nil
}

func (f *fakeResumeRepo) SetExtractedTextURI(ctx context.Context, id uuid.UUID, uri string) error {
	f.resumes[id].ExtractedTextURI = &uri
	return nil
}

func (f *fakeResumeRepo) MarkParsed(ctx context.Context, id uuid.UUID, confidence float64, parsedAt time.Time) error {
	resume := f.resumes[id]
	resume.Status = entity.ResumeStatusParsed
	resume.ParseConfidence = &confidence
	resume.ParsedAt = &parsedAt
	f.markedParsed = true
	return nil
}

func (f *fakeResumeRepo) MarkFailed(ctx context.Context, id uuid.UUID, code, message string) error {
	resume := f.resumes[id]
	resume.Status = entity.ResumeStatusFailed
	resume.ErrorCode = &code
	resume.ErrorMessage = &message
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*authentity.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *authentity.User) (*authentity.User, error) {
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*authentity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*authentity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type fakeProfileService struct {
	applied  bool
	applyErr error
}

func (f *fakeProfileService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*profiledto.ProfileResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeProfileService) UpdateMyProfile(ctx context.Context, userID uuid.UUID, req *profiledto.UpdateProfileRequest) (*profiledto.ProfileResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeProfileService) ApplyParsed(ctx context.Context, userID, resumeID uuid.UUID, structured *parser.StructuredResume) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = true
	return nil
}

type fakeBlobStore struct {
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.blobs[key] = data
	return f.ResolveURI(key), nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobStore) ResolveURI(key string) string { return "local://" + key }

type rejectScanner struct{}

func (rejectScanner) Scan(context.Context, []byte) (bool, error) { return false, nil }

type fakeNotifier struct {
	kinds []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data map[string]interface{}) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, data map[string]interface{}) {
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

type fixture struct {
	worker   *Worker
	resumes  *fakeResumeRepo
	profiles *fakeProfileService
	store    *fakeBlobStore
	notifier *fakeNotifier
	resume   *entity.ResumeVersion
	user     *authentity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resumes := newFakeResumeRepo()
	store := newFakeBlobStore()
	profiles := &fakeProfileService{}
	notifier := &fakeNotifier{}

	user := &authentity.User{Status: authentity.UserStatusActive}
	user.ID = uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*authentity.User{user.ID: user}}

	resume := &entity.ResumeVersion{
		UserID:   user.ID,
		FileName: "cv.txt",
		MimeType: "text/plain",
		Status:   entity.ResumeStatusUploaded,
	}
	resume.ID = uuid.New()
	key := "resumes/" + user.ID.String() + "/" + resume.ID.String() + "/cv.txt"
	resume.FileURI = store.ResolveURI(key)
	store.blobs[key] = []byte("Summary\nSenior Engineer with 5 years.\n\nSkills\nPython, SQL")
	resumes.resumes[resume.ID] = resume

	w := NewWorker(resumes, users, profiles, store, nil, notifier)
	w.extract = func(r io.Reader, mimeType, fileName string) (string, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return &fixture{
		worker:   w,
		resumes:  resumes,
		profiles: profiles,
		store:    store,
		notifier: notifier,
		resume:   resume,
		user:     user,
	}
}

func parseTask(t *testing.T, resumeID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.ParseResumePayload{ResumeVersionID: resumeID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return asynq.NewTask(queue.TaskParseResume, payload)
}

func TestHandleParseResumeSuccess(t *testing.T) {
	f := newFixture(t)

	if err := f.worker.HandleParseResume(context.Background(), parseTask(t, f.resume.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	stored := f.resumes.resumes[f.resume.ID]
	if stored.Status != entity.ResumeStatusParsed {
		t.Fatalf("status = %q, error = %v", stored.Status, stored.ErrorMessage)
	}
	wantTrail := []entity.ResumeStatus{entity.ResumeStatusScanning, entity.ResumeStatusParsing}
	if len(f.resumes.statusTrail) != 2 || f.resumes.statusTrail[0] != wantTrail[0] || f.resumes.statusTrail[1] != wantTrail[1] {
		t.Fatalf("status trail = %v", f.resumes.statusTrail)
	}
	if stored.ParseConfidence == nil || *stored.ParseConfidence <= 0 {
		t.Fatalf("parse confidence = %v", stored.ParseConfidence)
	}
	if !f.profiles.applied {
		t.Fatal("profile merge did not run")
	}
	if stored.ExtractedTextURI == nil {
		t.Fatal("extracted text not persisted")
	}
	if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != notifentity.TypeResumeParsed {
		t.Fatalf("notifications = %v", f.notifier.kinds)
	}
}

func TestHandleParseResumeTerminalFailures(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(f *fixture)
		wantCode string
	}{
		{
			name:     "user missing",
			mutate:   func(f *fixture) { f.resume.UserID = uuid.New() },
			wantCode: entity.ErrCodeUserNotFound,
		},
		{
			name:     "user suspended",
			mutate:   func(f *fixture) { f.user.Status = authentity.UserStatusSuspended },
			wantCode: entity.ErrCodeUserNotActive,
		},
		{
			name: "file missing in storage",
			mutate: func(f *fixture) {
				f.store.blobs = map[string][]byte{}
			},
			wantCode: entity.ErrCodeTextExtractionFailed,
		},
		{
			name:     "malware detected",
			mutate:   func(f *fixture) { f.worker.scanner = rejectScanner{} },
			wantCode: entity.ErrCodeMalwareDetected,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.mutate(f)

			// Terminal outcomes must not be retried.
			if err := f.worker.HandleParseResume(context.Background(), parseTask(t, f.resume.ID)); err != nil {
				t.Fatalf("handle returned %v", err)
			}

			stored := f.resumes.resumes[f.resume.ID]
			if stored.Status != entity.ResumeStatusFailed {
				t.Fatalf("status = %q", stored.Status)
			}
			if stored.ErrorCode == nil || *stored.ErrorCode != tc.wantCode {
				t.Fatalf("error code = %v, want %s", stored.ErrorCode, tc.wantCode)
			}
			if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != notifentity.TypeResumeFailed {
				t.Fatalf("notifications = %v", f.notifier.kinds)
			}
		})
	}
}

func TestHandleParseResumeMergeFailureRetries(t *testing.T) {
	f := newFixture(t)
	f.profiles.applyErr = io.ErrUnexpectedEOF

	err := f.worker.HandleParseResume(context.Background(), parseTask(t, f.resume.ID))
	if err == nil {
		t.Fatal("expected error so the queue retries")
	}

	stored := f.resumes.resumes[f.resume.ID]
	if stored.Status != entity.ResumeStatusFailed {
		t.Fatalf("status = %q", stored.Status)
	}
	if stored.ErrorCode == nil || *stored.ErrorCode != entity.ErrCodeParsingError {
		t.Fatalf("error code = %v", stored.ErrorCode)
	}
}

func TestHandleParseResumeMissingRowIsDropped(t *testing.T) {
	f := newFixture(t)

	if err := f.worker.HandleParseResume(context.Background(), parseTask(t, uuid.New())); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(f.resumes.statusTrail) != 0 {
		t.Fatalf("status trail = %v", f.resumes.statusTrail)
	}
}
