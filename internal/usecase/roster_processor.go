package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/domain/repository"
	"crewlog-service/pkg/logger"
	"crewlog-service/pkg/metrics"
)

// User-facing failure messages. Content errors suggest a retry with a better
// scan; transport errors suggest a plain retry.
const (
	msgExtractionFailed    = "The extraction service could not process this document. Please try again."
	msgNormalizationFailed = "Could not read a roster from this document. The image may be too unclear; please retry with a sharper scan."
	msgSchemaFailed        = "The extracted data did not look like a crew roster. Please retry with a clearer document."
)

// ProcessRequest is one roster submission from an authenticated principal.
// Month and Year are optional caller overrides of the intake defaults; zero
// means the current calendar month and year.
type ProcessRequest struct {
	UserID    string
	FileName  string
	MediaType string
	Document  []byte
	Month     int
	Year      int
}

// ProcessResult is the outcome of one extraction attempt.
type ProcessResult struct {
	UploadID     string                         `json:"upload_id"`
	Status       string                         `json:"status"`
	Month        int                            `json:"month"`
	Year         int                            `json:"year"`
	SavedCount   int                            `json:"saved_count"`
	EntriesTotal int                            `json:"entries_total"`
	Violations   []entity.FieldViolation        `json:"violations,omitempty"`
	EntryErrors  []entity.EntryError            `json:"entry_errors,omitempty"`
	Result       *entity.RosterExtractionResult `json:"result,omitempty"`
}

// RosterProcessor drives one upload through the whole pipeline: intake,
// extraction, normalization, validation, reconciliation and status tracking.
// Each call is an independent request-scoped execution with no shared state.
type RosterProcessor struct {
	uploads        repository.UploadRepository
	logbook        repository.LogbookRepository
	vision         repository.VisionRepository
	attempts       repository.AttemptRepository
	reconciler     *Reconciler
	validator      *Validator
	metrics        *metrics.Metrics
	logger         logger.Logger
	model          string
	extractTimeout time.Duration
}

func NewRosterProcessor(
	uploads repository.UploadRepository,
	logbook repository.LogbookRepository,
	vision repository.VisionRepository,
	attempts repository.AttemptRepository,
	validator *Validator,
	m *metrics.Metrics,
	log logger.Logger,
	model string,
	extractTimeout time.Duration,
) *RosterProcessor {
	if extractTimeout <= 0 {
		extractTimeout = 120 * time.Second
	}
	return &RosterProcessor{
		uploads:        uploads,
		logbook:        logbook,
		vision:         vision,
		attempts:       attempts,
		reconciler:     NewReconciler(logbook, log),
		validator:      validator,
		metrics:        m,
		logger:         log,
		model:          model,
		extractTimeout: extractTimeout,
	}
}

// ProcessRoster runs one end-to-end extraction attempt. Failures before any
// entry exists surface as an error and a failed upload; per-entry failures
// are absorbed into a completed upload's report.
func (p *RosterProcessor) ProcessRoster(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if !entity.AllowedMediaTypes[req.MediaType] {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedMediaType, req.MediaType)
	}

	fileKind := entity.FileKindImage
	if req.MediaType == "application/pdf" {
		fileKind = entity.FileKindPDF
	}

	now := time.Now()
	month, year := req.Month, req.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	upload := &entity.RosterUpload{
		ID:       uuid.New().String(),
		UserID:   req.UserID,
		FileName: req.FileName,
		FileKind: fileKind,
		Status:   entity.UploadStatusProcessing,
		Month:    month,
		Year:     year,
	}
	if err := p.uploads.Create(ctx, upload); err != nil {
		p.countError("upload_create")
		return nil, &entity.PersistenceError{Op: "intake", Err: err}
	}
	log := p.logger.With("upload_id", upload.ID, "user_id", req.UserID)
	log.Info("Roster upload accepted", "file_name", req.FileName, "file_kind", fileKind)

	attempt := &entity.ExtractionAttempt{
		UploadID:      upload.ID,
		UserID:        req.UserID,
		FileName:      req.FileName,
		FileKind:      fileKind,
		PromptVersion: PromptVersion,
		Model:         p.model,
		CreatedAt:     now,
	}
	started := time.Now()

	instructions := BuildRosterInstructions()
	extractCtx, cancel := context.WithTimeout(ctx, p.extractTimeout)
	rawText, err := p.vision.ExtractText(extractCtx, req.Document, req.MediaType, instructions)
	cancel()
	if p.metrics != nil {
		p.metrics.ExtractionSeconds.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		callErr := &entity.ExtractionCallError{Err: err}
		p.failUpload(ctx, log, upload.ID, msgExtractionFailed, nil)
		p.archiveFailure(ctx, log, attempt, "extraction", callErr.Error(), "", started)
		return &ProcessResult{UploadID: upload.ID, Status: entity.UploadStatusFailed}, callErr
	}

	candidate, normErr := NormalizeModelOutput(rawText)
	if normErr != nil {
		p.failUpload(ctx, log, upload.ID, msgNormalizationFailed, &normErr.RawText)
		p.archiveFailure(ctx, log, attempt, "normalization", normErr.Error(), normErr.RawText, started)
		return &ProcessResult{UploadID: upload.ID, Status: entity.UploadStatusFailed}, normErr
	}

	result, violations, err := p.validator.Validate(candidate)
	if err != nil {
		text := string(candidate)
		p.failUpload(ctx, log, upload.ID, msgSchemaFailed, &text)
		p.archiveFailure(ctx, log, attempt, "schema", err.Error(), text, started)
		return &ProcessResult{UploadID: upload.ID, Status: entity.UploadStatusFailed}, err
	}
	if len(violations) > 0 {
		log.Warn("Roster entries dropped by validation", "violations", len(violations))
		if p.metrics != nil {
			p.metrics.EntriesRejected.Add(float64(len(violations)))
		}
	}

	report := p.reconciler.Reconcile(ctx, req.UserID, upload.ID, result)

	payload, err := json.Marshal(result)
	if err != nil {
		// Result came from valid JSON, so this cannot realistically happen.
		payload = candidate
	}
	if err := p.uploads.MarkCompleted(ctx, upload.ID, result.Month, result.Year, string(payload)); err != nil {
		p.countError("upload_complete")
		return nil, &entity.PersistenceError{Op: "status tracking", Err: err}
	}

	attempt.Outcome = entity.AttemptOutcomeCompleted
	attempt.RawText = rawText
	attempt.Payload = decodeCandidate(candidate)
	attempt.Violations = violations
	attempt.EntryErrors = report.EntryErrors
	attempt.SavedCount = report.SavedCount
	attempt.ElapsedMs = time.Since(started).Milliseconds()
	p.archive(ctx, log, attempt)

	if p.metrics != nil {
		p.metrics.UploadsProcessed.WithLabelValues(entity.UploadStatusCompleted).Inc()
		p.metrics.EntriesSaved.Add(float64(report.SavedCount))
		p.metrics.EntriesRejected.Add(float64(len(report.EntryErrors)))
	}
	log.Info("Roster upload completed",
		"saved", report.SavedCount,
		"violations", len(violations),
		"entry_errors", len(report.EntryErrors),
		"month", result.Month, "year", result.Year)

	return &ProcessResult{
		UploadID:     upload.ID,
		Status:       entity.UploadStatusCompleted,
		Month:        result.Month,
		Year:         result.Year,
		SavedCount:   report.SavedCount,
		EntriesTotal: len(result.Entries) + len(violations),
		Violations:   violations,
		EntryErrors:  report.EntryErrors,
		Result:       result,
	}, nil
}

// GetUpload returns one upload record scoped to its owning user.
func (p *RosterProcessor) GetUpload(ctx context.Context, userID, uploadID string) (*entity.RosterUpload, error) {
	return p.uploads.GetByID(ctx, userID, uploadID)
}

// ListLogbook returns the user's logbook entries for one month, flights in
// sort order.
func (p *RosterProcessor) ListLogbook(ctx context.Context, userID string, month, year int) ([]*entity.LogbookEntry, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("year out of range: %d", year)
	}
	return p.logbook.ListEntries(ctx, userID, month, year)
}

func (p *RosterProcessor) failUpload(ctx context.Context, log logger.Logger, uploadID, message string, rawText *string) {
	if err := p.uploads.MarkFailed(ctx, uploadID, message, rawText); err != nil {
		p.countError("upload_fail_mark")
		log.Error("Failed to mark upload as failed", "error", err)
		return
	}
	if p.metrics != nil {
		p.metrics.UploadsProcessed.WithLabelValues(entity.UploadStatusFailed).Inc()
	}
}

func (p *RosterProcessor) archiveFailure(ctx context.Context, log logger.Logger, attempt *entity.ExtractionAttempt, stage, detail, rawText string, started time.Time) {
	attempt.Outcome = entity.AttemptOutcomeFailed
	attempt.FailureStage = stage
	attempt.ErrorDetail = detail
	attempt.RawText = rawText
	attempt.ElapsedMs = time.Since(started).Milliseconds()
	p.archive(ctx, log, attempt)
}

func (p *RosterProcessor) archive(ctx context.Context, log logger.Logger, attempt *entity.ExtractionAttempt) {
	if p.attempts == nil {
		return
	}
	if err := p.attempts.Archive(ctx, attempt); err != nil {
		p.countError("attempt_archive")
		log.Warn("Failed to archive extraction attempt", "error", err)
	}
}

func (p *RosterProcessor) countError(operation string) {
	if p.metrics != nil {
		p.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

func decodeCandidate(candidate []byte) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(candidate, &m); err != nil {
		return nil
	}
	return m
}
