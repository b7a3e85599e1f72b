package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eventhub-api/core/logger"
	"eventhub-api/core/queue"
	"eventhub-api/core/storage"
	authrepo "eventhub-api/modules/auth/repository"
	notifentity "eventhub-api/modules/notification/entity"
	notifservice "eventhub-api/modules/notification/service"
	profileservice "eventhub-api/modules/profile/service"
	"eventhub-api/modules/resume/entity"
	"eventhub-api/modules/resume/parser"
	"eventhub-api/modules/resume/repository"

	"github.com/hibiken/asynq"
)

// Scanner is the malware-scan collaborator. Infected files fail the job
// terminally.
type Scanner interface {
	Scan(ctx context.Context, data []byte) (clean bool, err error)
}

// NoopScanner accepts everything. A ClamAV-backed implementation can replace
// it without touching the pipeline.
type NoopScanner struct{}

func (NoopScanner) Scan(context.Context, []byte) (bool, error) { return true, nil }

// Worker drives the resume ingestion pipeline. Each status transition is
// written before the next step starts, so polling clients see progress, and
// every step is idempotent so at-least-once delivery is safe.
type Worker struct {
	resumes  repository.ResumeRepositoryInterface
	users    authrepo.AuthRepositoryInterface
	profiles profileservice.ProfileServiceInterface
	store    storage.BlobStore
	scanner  Scanner
	notifier notifservice.NotificationServiceInterface
	extract  func(r io.Reader, mimeType, fileName string) (string, error)
	now      func() time.Time
}

func NewWorker(
	resumes repository.ResumeRepositoryInterface,
	users authrepo.AuthRepositoryInterface,
	profiles profileservice.ProfileServiceInterface,
	store storage.BlobStore,
	scanner Scanner,
	notifier notifservice.NotificationServiceInterface,
) *Worker {
	if scanner == nil {
		scanner = NoopScanner{}
	}
	return &Worker{
		resumes:  resumes,
		users:    users,
		profiles: profiles,
		store:    store,
		scanner:  scanner,
		notifier: notifier,
		extract:  parser.ExtractText,
		now:      time.Now,
	}
}

// Register attaches the worker's handlers to the job mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskParseResume, w.HandleParseResume)
}

// HandleParseResume runs the pipeline for one resume version:
// UPLOADED -> SCANNING -> PARSING -> PARSED, branching to FAILED on any
// terminal condition. Terminal failures return nil so the queue does not
// retry them; only infrastructure errors propagate.
func (w *Worker) HandleParseResume(ctx context.Context, t *asynq.Task) error {
	var payload queue.ParseResumePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Worker:HandleParseResume:Payload", err)
		return nil
	}

	resume, err := w.resumes.GetByID(ctx, payload.ResumeVersionID)
	if err != nil {
		return err
	}
	if resume == nil {
		logger.Warn("Worker:HandleParseResume", "resume_version_id", payload.ResumeVersionID, "status", "missing")
		return nil
	}

	user, err := w.users.GetUserByID(ctx, resume.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return w.fail(ctx, resume, entity.ErrCodeUserNotFound, "owner user was not found")
	}
	if !user.IsActive() {
		return w.fail(ctx, resume, entity.ErrCodeUserNotActive, "owner user is not active")
	}

	if err := w.resumes.SetStatus(ctx, resume.ID, entity.ResumeStatusScanning); err != nil {
		return err
	}

	data, failCode, failMsg := w.fetchFile(ctx, resume)
	if failCode != "" {
		return w.fail(ctx, resume, failCode, failMsg)
	}

	clean, err := w.scanner.Scan(ctx, data)
	if err != nil {
		return err
	}
	if !clean {
		return w.fail(ctx, resume, entity.ErrCodeMalwareDetected, "malware detected in uploaded file")
	}

	if err := w.resumes.SetStatus(ctx, resume.ID, entity.ResumeStatusParsing); err != nil {
		return err
	}

	text, err := w.extract(bytes.NewReader(data), resume.MimeType, resume.FileName)
	if err != nil {
		return w.fail(ctx, resume, entity.ErrCodeTextExtractionFailed, err.Error())
	}

	structured := parser.Structure(text)

	// Derived artifact; losing it does not fail the job.
	w.saveExtractedText(ctx, resume, text)

	if err := w.profiles.ApplyParsed(ctx, resume.UserID, resume.ID, structured); err != nil {
		logger.Error("Worker:HandleParseResume:ApplyParsed", err)
		if mErr := w.resumes.MarkFailed(ctx, resume.ID, entity.ErrCodeParsingError, err.Error()); mErr != nil {
			logger.Error("Worker:HandleParseResume:MarkFailed", mErr)
		}
		return err
	}

	if err := w.resumes.MarkParsed(ctx, resume.ID, structured.ParseConfidence, w.now().UTC()); err != nil {
		return err
	}

	logger.Info("Resume parsed", "resume_version_id", resume.ID, "confidence", structured.ParseConfidence)
	w.notify(ctx, resume, notifentity.TypeResumeParsed,
		"Resume processed",
		fmt.Sprintf("Your resume %q was parsed and your profile has been updated.", resume.FileName))
	return nil
}

// fetchFile reads the uploaded bytes out of the blob store. A missing or
// unreadable file is a terminal extraction failure, not a retry candidate.
func (w *Worker) fetchFile(ctx context.Context, resume *entity.ResumeVersion) ([]byte, string, string) {
	key := storage.KeyFromURI(resume.FileURI)
	rc, err := w.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, entity.ErrCodeTextExtractionFailed, "uploaded file is missing in storage"
		}
		return nil, entity.ErrCodeTextExtractionFailed, fmt.Sprintf("unable to open resume file: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, entity.ErrCodeTextExtractionFailed, fmt.Sprintf("unable to read resume file: %v", err)
	}
	return data, "", ""
}

func (w *Worker) saveExtractedText(ctx context.Context, resume *entity.ResumeVersion, text string) {
	key := fmt.Sprintf("extracted/%s/%s.txt", resume.UserID, resume.ID)
	uri, err := w.store.Put(ctx, key, strings.NewReader(text))
	if err != nil {
		logger.Warn("Worker:saveExtractedText", "resume_version_id", resume.ID, "error", err)
		return
	}
	if err := w.resumes.SetExtractedTextURI(ctx, resume.ID, uri); err != nil {
		logger.Warn("Worker:saveExtractedText:Persist", "resume_version_id", resume.ID, "error", err)
	}
}

// fail records a terminal failure and swallows the error so the queue does
// not retry a deterministic outcome.
func (w *Worker) fail(ctx context.Context, resume *entity.ResumeVersion, code, message string) error {
	logger.Warn("Resume ingestion failed", "resume_version_id", resume.ID, "error_code", code, "message", message)
	if err := w.resumes.MarkFailed(ctx, resume.ID, code, message); err != nil {
		logger.Error("Worker:fail:MarkFailed", err)
		return err
	}
	w.notify(ctx, resume, notifentity.TypeResumeFailed,
		"Resume processing failed",
		fmt.Sprintf("Your resume %q could not be processed (%s).", resume.FileName, code))
	return nil
}

func (w *Worker) notify(ctx context.Context, resume *entity.ResumeVersion, kind, title, message string) {
	if w.notifier == nil {
		return
	}
	data := map[string]interface{}{"resume_version_id": resume.ID.String()}
	if err := w.notifier.Notify(ctx, resume.UserID, kind, title, message, data); err != nil {
		logger.Warn("Worker:notify", "resume_version_id", resume.ID, "error", err)
	}
}
