package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilitySquadOnly Visibility = "squad_only"
	VisibilityPrivate   Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilitySquadOnly, VisibilityPrivate:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Project struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Tags           []string        `json:"tags"`
	Visibility     Visibility      `json:"visibility"`
	Difficulty     Difficulty      `json:"difficulty"`
	Status         string          `json:"status,omitempty"`
	EstimatedHours *int            `json:"estimatedHours,omitempty"`
	ThumbnailURL   *string         `json:"thumbnailUrl,omitempty"`
	SquadID        *string         `json:"squadId,omitempty"`
	OwnerID        string          `json:"ownerId,omitempty"`
	LikeCount      int             `json:"likeCount"`
	RepostCount    int             `json:"repostCount"`
	Files          []ProjectFile   `json:"files"`
	Updates        []ProjectUpdate `json:"updates"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type ProjectFile struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Filename    string    `json:"filename"`
	FileURL     string    `json:"fileUrl"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	Description *string   `json:"description,omitempty"`
	UploadedBy  string    `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type ProjectUpdate struct {
	ID                 string    `json:"id"`
	ProjectID          string    `json:"projectId"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	ProgressPercentage *int      `json:"progressPercentage,omitempty"`
	HoursLogged        *int      `json:"hoursLogged,omitempty"`
	AuthorID           string    `json:"authorId"`
	CreatedAt          time.Time `json:"createdAt"`
	Attachments        []string  `json:"attachments,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProjectFilters are the list query options. Zero values are left out of
// the query string.
type ProjectFilters struct {
	Page       int
	Limit      int
	Search     string
	Tags       []string
	Status     string
	Difficulty Difficulty
	Visibility Visibility
}

func (f ProjectFilters) Query() url.Values {
	params := url.Values{}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		params.Set("search", s)
	}
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			params.Add("tags", tag)
		}
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Difficulty != "" {
		params.Set("difficulty", string(f.Difficulty))
	}
	if f.Visibility != "" {
		params.Set("visibility", string(f.Visibility))
	}
	return params
}

// FileIcon picks the icon name shown next to a file of the given type.
// The type is free-form: a MIME type, an extension, or a loose label.
func FileIcon(fileType string) string {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), "."))
	switch {
	case t == "":
		return "file"
	case strings.HasPrefix(t, "image") || oneOf(t, "png", "jpg", "jpeg", "gif", "webp", "svg", "heic"):
		return "image"
	case strings.HasPrefix(t, "video") || oneOf(t, "mp4", "mov", "webm", "mkv", "avi"):
		return "video"
	case strings.HasPrefix(t, "audio") || oneOf(t, "mp3", "wav", "ogg", "flac", "m4a"):
		return "audio"
	case strings.Contains(t, "pdf"):
		return "pdf"
	case strings.Contains(t, "zip") || oneOf(t, "tar", "gz", "tgz", "rar", "7z"):
		return "archive"
	case oneOf(t, "go", "js", "ts", "py", "rs", "c", "cpp", "h", "java", "kt", "swift", "json", "yaml", "yml", "code") ||
		strings.HasPrefix(t, "text/x-"):
		return "code"
	case strings.HasPrefix(t, "text") || oneOf(t, "doc", "docx", "txt", "md", "rtf", "odt", "document"):
		return "document"
	}
	return "file"
}

func oneOf(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
