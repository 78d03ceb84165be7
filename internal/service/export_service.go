package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/importer"
	"github.com/msbhamoo/myark-admin-api/internal/models"
	"github.com/msbhamoo/myark-admin-api/internal/store"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
	"github.com/msbhamoo/myark-admin-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders entity collections into downloadable CSV or PDF
// files, mirroring the documents the import pipeline writes.
type ExportService struct {
	store   store.Store
	cache   *CacheService
	metrics *MetricsService
	audit   auditRepository
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(st store.Store, cache *CacheService, metrics *MetricsService, audit auditRepository, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{store: st, cache: cache, metrics: metrics, audit: audit, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the full collection behind an entity. Format is "csv" or
// "pdf"; csv when unspecified. Rendered payloads are cached per entity and
// format, and a commit invalidates them.
func (s *ExportService) Export(ctx context.Context, entityName, format string, actor Actor) (*dto.ExportResult, error) {
	entity, ok := importer.ParseEntity(entityName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedEntity, fmt.Sprintf("unsupported entity %q", entityName))
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	result := &dto.ExportResult{
		FileName:    fmt.Sprintf("%s-export.%s", entity, format),
		ContentType: contentTypeFor(format),
	}

	cacheKey := fmt.Sprintf("export:%s:%s", entity, format)
	var cached []byte
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		result.Content = cached
		return result, nil
	}

	docs, err := s.store.List(ctx, importer.Collection(entity))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collection")
	}

	dataset := buildDataset(docs)
	var content []byte
	switch format {
	case "pdf":
		content, err = s.pdf.Render(dataset, fmt.Sprintf("%s export", entity))
	default:
		content, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	result.Content = content

	if err := s.cache.Set(ctx, cacheKey, content, 0); err != nil {
		s.logger.Warn("failed to cache export", zap.String("key", cacheKey), zap.Error(err))
	}

	s.recordAudit(ctx, actor, string(entity), format, len(docs))

	return result, nil
}

// buildDataset flattens store documents into a tabular dataset. Columns are
// the union of document keys, with id first, so exports stay stable as the
// schema evolves.
func buildDataset(docs []store.Document) export.Dataset {
	columns := make(map[string]struct{})
	for _, doc := range docs {
		for key := range doc.Data {
			columns[key] = struct{}{}
		}
	}

	headers := make([]string, 0, len(columns)+1)
	for key := range columns {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	headers = append([]string{"id"}, headers...)

	rows := make([]map[string]string, 0, len(docs))
	for _, doc := range docs {
		row := make(map[string]string, len(headers))
		row["id"] = doc.ID
		for key, value := range doc.Data {
			row[key] = formatCell(value)
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatCell(item))
		}
		return strings.Join(parts, "; ")
	case []string:
		return strings.Join(v, "; ")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

func contentTypeFor(format string) string {
	if format == "pdf" {
		return "application/pdf"
	}
	return "text/csv"
}

func (s *ExportService) recordAudit(ctx context.Context, actor Actor, entity, format string, count int) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{"format": format, "documents": count})
	log := &models.AuditLog{
		Action:    models.AuditActionExport,
		Resource:  entity,
		NewValues: payload,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != "" {
		userID := actor.UserID
		log.UserID = &userID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record export audit log", zap.Error(err))
	}
}
