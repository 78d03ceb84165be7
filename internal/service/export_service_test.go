package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msbhamoo/myark-admin-api/internal/store"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
)

func TestExportCSV(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("organizers", "acme-trust", map[string]interface{}{
		"name":       "Acme Trust",
		"type":       "ngo",
		"isVerified": true,
	})
	svc := NewExportService(st, nil, nil, nil, nil, nil, nil)

	result, err := svc.Export(context.Background(), "organizers", "", Actor{})
	require.NoError(t, err)

	assert.Equal(t, "organizers-export.csv", result.FileName)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,isVerified,name,type", lines[0])
	assert.Equal(t, "acme-trust,true,Acme Trust,ngo", lines[1])
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewExportService(store.NewMemoryStore(), nil, nil, nil, nil, nil, nil)

	_, err := svc.Export(context.Background(), "organizers", "xlsx", Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "a; b", formatCell([]interface{}{"a", "b"}))
	assert.Equal(t, "1998", formatCell(float64(1998)))
	assert.Equal(t, "true", formatCell(true))
	assert.Equal(t, `{"email":"a@b.org"}`, formatCell(map[string]interface{}{"email": "a@b.org"}))
}
