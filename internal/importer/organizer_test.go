package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func organizerRow(cells map[string]string) RawRecord {
	return RawRecord{Index: 2, Cells: cells}
}

func TestValidateOrganizer(t *testing.T) {
	result := validateOrganizer(organizerRow(map[string]string{
		"name":           "Science Foundation of India",
		"type":           "NGO",
		"visibility":     "",
		"foundationYear": "1998",
		"email":          "contact@example.org",
		"isVerified":     "yes",
	}), nil)

	require.True(t, result.Valid())
	rec := result.Data.(*OrganizerRecord)
	assert.Equal(t, "ngo", rec.Type)
	assert.Equal(t, "public", rec.Visibility)
	require.NotNil(t, rec.FoundationYear)
	assert.Equal(t, 1998, *rec.FoundationYear)
	assert.True(t, rec.IsVerified)
}

func TestValidateOrganizerDefaults(t *testing.T) {
	result := validateOrganizer(organizerRow(map[string]string{"name": "Acme"}), nil)

	require.True(t, result.Valid())
	rec := result.Data.(*OrganizerRecord)
	assert.Equal(t, "other", rec.Type)
	assert.Equal(t, "public", rec.Visibility)
	assert.Nil(t, rec.FoundationYear)
	assert.False(t, rec.IsVerified)
}

func TestValidateOrganizerCollectsAllErrors(t *testing.T) {
	result := validateOrganizer(organizerRow(map[string]string{
		"name":           "",
		"type":           "charity",
		"visibility":     "hidden",
		"foundationYear": "long ago",
		"email":          "nope",
	}), nil)

	require.False(t, result.Valid())
	assert.Equal(t, []string{
		"Name is required",
		"Type must be one of: government, private, ngo, international, other",
		"Visibility must be either public or private",
		"Foundation year must be a number",
		"Email appears to be invalid",
	}, result.Errors)
}

func TestValidateOrganizerDocumentNullYear(t *testing.T) {
	result := validateOrganizer(organizerRow(map[string]string{"name": "Acme"}), nil)
	require.True(t, result.Valid())

	doc := result.Data.Document()
	assert.Nil(t, doc["foundationYear"])
	assert.Equal(t, "Acme", doc["name"])
}
