package importer

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/msbhamoo/myark-admin-api/internal/store"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
)

// Outcome reports how a persisted row affected its collection.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable document key from a natural name: lowercased,
// non-alphanumeric runs collapsed to single hyphens, edges trimmed.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// Persist writes a validated record to its collection. An explicit id wins as
// the document key; otherwise the slug of the natural name is used, which
// makes re-importing the same file converge on the same documents. Existing
// documents are merge-updated so fields managed outside the import survive.
func Persist(ctx context.Context, entity Entity, st store.Store, rec Record) (Outcome, error) {
	collection := Collection(entity)

	id := asTrimmedString(rec.ExplicitID())
	if id == "" {
		id = Slugify(rec.NaturalName())
	}
	if id == "" {
		return "", appErrors.New("IMPORT_ROW_UNADDRESSABLE", 422, "record has neither an id nor a usable name")
	}

	_, err := st.Get(ctx, collection, id)
	switch {
	case err == nil:
		if err := st.Set(ctx, collection, id, rec.Document(), true); err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	case errors.Is(err, store.ErrNotFound):
		if err := st.Set(ctx, collection, id, rec.Document(), false); err != nil {
			return "", err
		}
		return OutcomeCreated, nil
	default:
		return "", err
	}
}
