package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/importer"
	"github.com/msbhamoo/myark-admin-api/internal/models"
	"github.com/msbhamoo/myark-admin-api/internal/store"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
	"github.com/msbhamoo/myark-admin-api/pkg/export"
	"github.com/msbhamoo/myark-admin-api/pkg/storage"
)

type auditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Actor identifies the authenticated user performing an import, for the
// audit trail.
type Actor struct {
	UserID    string
	IP        string
	UserAgent string
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	MaxRows     int
	TemplateTTL time.Duration
}

// ImportService implements the two-phase CSV import: a read-only preview
// that validates every row, and a commit that persists the rows the client
// sends back. Both phases validate against a snapshot of reference data
// taken at the start of the batch.
type ImportService struct {
	store   store.Store
	cache   *CacheService
	metrics *MetricsService
	uploads *storage.LocalStorage
	audit   auditRepository
	logger  *zap.Logger
	config  ImportConfig
}

// NewImportService constructs an ImportService. uploads may be nil when
// upload retention is disabled; audit may be nil in tests.
func NewImportService(st store.Store, cache *CacheService, metrics *MetricsService, uploads *storage.LocalStorage, audit auditRepository, logger *zap.Logger, config ImportConfig) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxRows <= 0 {
		config.MaxRows = 500
	}
	return &ImportService{
		store:   st,
		cache:   cache,
		metrics: metrics,
		uploads: uploads,
		audit:   audit,
		logger:  logger,
		config:  config,
	}
}

// Preview parses and validates an uploaded CSV without writing anything.
// Every data row comes back annotated with either its normalized document or
// its error list, so the client can render a review table before committing.
func (s *ImportService) Preview(ctx context.Context, entityName, fileName string, content []byte, actor Actor) (*dto.PreviewResponse, error) {
	start := time.Now()

	entity, ok := importer.ParseEntity(entityName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedEntity, fmt.Sprintf("unsupported entity %q", entityName))
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "the uploaded file is empty")
	}

	parsed, err := importer.ParseRecords(string(content))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse CSV")
	}
	if len(parsed.Headers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoHeaderRow, "no header row detected in CSV")
	}
	if err := s.ensureRowLimit(len(parsed.Rows)); err != nil {
		return nil, err
	}
	if len(parsed.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoDataRows, "no data rows found in the CSV; add at least one row below the header")
	}

	snap, err := importer.BuildSnapshot(ctx, entity, s.store)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code, appErrors.ErrSnapshotUnavailable.Status, "failed to load reference data")
	}

	resp := &dto.PreviewResponse{
		Entity:  string(entity),
		Headers: parsed.Headers,
		Rows:    make([]dto.RowResult, 0, len(parsed.Rows)),
	}
	for _, row := range parsed.Rows {
		result := importer.Validate(entity, row, snap)
		rowResult := dto.RowResult{Index: row.Index, Raw: row.Cells, Errors: result.Errors}
		if result.Valid() {
			rowResult.Data = result.Data.Document()
			resp.Totals.Valid++
		} else {
			resp.Totals.Invalid++
		}
		resp.Rows = append(resp.Rows, rowResult)
	}
	resp.Totals.Total = len(resp.Rows)

	s.retainUpload(entity, fileName, content)
	s.recordAudit(ctx, actor, models.AuditActionImportPreview, string(entity), map[string]interface{}{
		"file":    fileName,
		"total":   resp.Totals.Total,
		"valid":   resp.Totals.Valid,
		"invalid": resp.Totals.Invalid,
	})

	if s.metrics != nil {
		s.metrics.ObserveImportBatch(string(entity), "preview", time.Since(start))
		s.metrics.CountImportRows(string(entity), "preview", "valid", resp.Totals.Valid)
		s.metrics.CountImportRows(string(entity), "preview", "invalid", resp.Totals.Invalid)
	}

	return resp, nil
}

// Commit re-validates the submitted rows against a fresh snapshot and
// persists the ones that pass. A failing row never aborts the batch: it is
// reported in the failed list and the loop moves on. Entries without a usable
// raw payload are reported with a null index after the validated failures.
func (s *ImportService) Commit(ctx context.Context, entityName string, req dto.CommitRequest, actor Actor) (*dto.CommitResponse, error) {
	start := time.Now()

	entity, ok := importer.ParseEntity(entityName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedEntity, fmt.Sprintf("unsupported entity %q", entityName))
	}

	rows := make([]importer.RawRecord, 0, len(req.Rows))
	var malformed []dto.FailedRow
	for position, row := range req.Rows {
		if row.Raw == nil {
			malformed = append(malformed, dto.FailedRow{Index: nil, Errors: []string{"Row payload is malformed"}})
			continue
		}
		index := position + 2
		if row.Index != nil {
			index = *row.Index
		}
		rows = append(rows, importer.RawRecord{Index: index, Cells: row.Raw})
	}

	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoDataRows, "no valid rows supplied for import")
	}
	if err := s.ensureRowLimit(len(rows)); err != nil {
		return nil, err
	}

	snap, err := importer.BuildSnapshot(ctx, entity, s.store)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code, appErrors.ErrSnapshotUnavailable.Status, "failed to load reference data")
	}

	resp := &dto.CommitResponse{Entity: string(entity)}
	var failed []dto.FailedRow
	for _, row := range rows {
		result := importer.Validate(entity, row, snap)
		if !result.Valid() {
			index := row.Index
			failed = append(failed, dto.FailedRow{Index: &index, Errors: result.Errors})
			continue
		}

		outcome, err := importer.Persist(ctx, entity, s.store, result.Data)
		if err != nil {
			s.logger.Warn("failed to persist import row",
				zap.String("entity", string(entity)),
				zap.Int("index", row.Index),
				zap.Error(err))
			index := row.Index
			failed = append(failed, dto.FailedRow{Index: &index, Errors: []string{err.Error()}})
			continue
		}
		switch outcome {
		case importer.OutcomeCreated:
			resp.Summary.Created++
		case importer.OutcomeUpdated:
			resp.Summary.Updated++
		}
	}

	// Total covers every submitted row, malformed included, so
	// created+updated+failed always sums back to it.
	resp.Summary.Total = len(rows) + len(malformed)
	resp.Summary.Failed = len(failed) + len(malformed)
	resp.Failed = append(failed, malformed...)
	if resp.Failed == nil {
		resp.Failed = []dto.FailedRow{}
	}

	s.recordAudit(ctx, actor, models.AuditActionImportCommit, string(entity), map[string]interface{}{
		"total":   resp.Summary.Total,
		"created": resp.Summary.Created,
		"updated": resp.Summary.Updated,
		"failed":  resp.Summary.Failed,
	})

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("export:%s:*", entity)); err != nil {
			s.logger.Warn("failed to invalidate export cache", zap.String("entity", string(entity)), zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveImportBatch(string(entity), "commit", time.Since(start))
		s.metrics.CountImportRows(string(entity), "commit", "created", resp.Summary.Created)
		s.metrics.CountImportRows(string(entity), "commit", "updated", resp.Summary.Updated)
		s.metrics.CountImportRows(string(entity), "commit", "failed", resp.Summary.Failed)
	}

	return resp, nil
}

// Template renders the downloadable CSV starter for an entity: the expected
// header row plus one sample data row. Rendered templates are cached since
// they only change with a deploy.
func (s *ImportService) Template(ctx context.Context, entityName string) ([]byte, string, error) {
	entity, ok := importer.ParseEntity(entityName)
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrUnsupportedEntity, fmt.Sprintf("unsupported entity %q", entityName))
	}

	cacheKey := fmt.Sprintf("template:%s", entity)
	fileName := fmt.Sprintf("%s-template.csv", entity)

	var cached []byte
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, fileName, nil
	}

	def, ok := importer.Template(entity)
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrUnsupportedEntity, fmt.Sprintf("no template for entity %q", entityName))
	}

	exporter := export.NewCSVExporter()
	content, err := exporter.RenderRecords(def.Headers, [][]string{def.Sample})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}

	if err := s.cache.Set(ctx, cacheKey, content, s.config.TemplateTTL); err != nil {
		s.logger.Warn("failed to cache template", zap.String("entity", string(entity)), zap.Error(err))
	}

	return content, fileName, nil
}

func (s *ImportService) ensureRowLimit(count int) error {
	if count > s.config.MaxRows {
		return appErrors.Clone(appErrors.ErrRowLimitExceeded,
			fmt.Sprintf("the uploaded file contains %d rows; the maximum supported per import is %d", count, s.config.MaxRows))
	}
	return nil
}

// retainUpload archives the raw upload for later inspection. Failures are
// logged, never surfaced: retention is best effort and must not break a
// preview.
func (s *ImportService) retainUpload(entity importer.Entity, fileName string, content []byte) {
	if s.uploads == nil {
		return
	}
	base := filepath.Base(fileName)
	if base == "." || base == "/" || base == "" {
		base = "upload.csv"
	}
	name := fmt.Sprintf("%s-%d-%s", entity, time.Now().UnixNano(), strings.ReplaceAll(base, " ", "_"))
	if _, err := s.uploads.Save(name, content); err != nil {
		s.logger.Warn("failed to retain upload", zap.String("file", name), zap.Error(err))
	}
}

func (s *ImportService) recordAudit(ctx context.Context, actor Actor, action, resource string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	payload, err := json.Marshal(details)
	if err != nil {
		payload = nil
	}
	log := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		NewValues: payload,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != "" {
		userID := actor.UserID
		log.UserID = &userID
		log.ResourceID = &userID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record import audit log", zap.Error(err))
	}
}
