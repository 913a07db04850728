package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"hobbyhub-client/internal/models"
)

func TestProjectFilters_Query(t *testing.T) {
	filters := models.ProjectFilters{
		Page:       2,
		Limit:      20,
		Search:     "  robot arm ",
		Tags:       []string{"rust", " ", "embedded"},
		Status:     "in_progress",
		Difficulty: models.DifficultyAdvanced,
		Visibility: models.VisibilityPublic,
	}

	q := filters.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "robot arm", q.Get("search"))
	assert.Equal(t, []string{"rust", "embedded"}, q["tags"])
	assert.Equal(t, "in_progress", q.Get("status"))
	assert.Equal(t, "advanced", q.Get("difficulty"))
	assert.Equal(t, "public", q.Get("visibility"))
}

func TestProjectFilters_QueryEmpty(t *testing.T) {
	assert.Empty(t, models.ProjectFilters{}.Query().Encode())
}

func TestVisibilityAndDifficultyValid(t *testing.T) {
	assert.True(t, models.VisibilitySquadOnly.Valid())
	assert.False(t, models.Visibility("friends").Valid())
	assert.True(t, models.DifficultyBeginner.Valid())
	assert.False(t, models.Difficulty("expert").Valid())
}

func TestFileIcon(t *testing.T) {
	cases := map[string]string{
		"image/png":       "image",
		".JPG":            "image",
		"video/mp4":       "video",
		"mp3":             "audio",
		"application/pdf": "pdf",
		"application/zip": "archive",
		"go":              "code",
		"text/plain":      "document",
		"docx":            "document",
		"":                "file",
		"blueprint":       "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, models.FileIcon(in), "fileType %q", in)
	}
}
