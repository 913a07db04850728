package database

import (
	"context"
	"errors"
	"strings"

	"hobbyhub-client/internal/models"
)

var ErrNotFound = errors.New("not found")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultStatus   = "planning"
)

// ListOptions filters a project listing. ViewerID sees their own private
// and squad_only projects; everyone sees public ones.
type ListOptions struct {
	Page       int
	Limit      int
	Search     string
	Tags       []string
	Status     string
	Difficulty string
	Visibility string
	ViewerID   string
}

// Normalize fills in paging defaults and lower-cases tags.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	tags := make([]string, 0, len(o.Tags))
	for _, t := range o.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	o.Tags = tags
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.Limit
}

// NewPagination builds the pagination block for a page of a listing.
func NewPagination(opts ListOptions, total int) *models.Pagination {
	pages := 0
	if opts.Limit > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}
	return &models.Pagination{Page: opts.Page, Limit: opts.Limit, Total: total, TotalPages: pages}
}

// Store persists projects with their files, updates, likes and reposts.
// GetProject returns files oldest first and updates newest first.
type Store interface {
	ListProjects(ctx context.Context, opts ListOptions) ([]models.Project, int, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) error
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	AddFile(ctx context.Context, f *models.ProjectFile) error
	DeleteFile(ctx context.Context, projectID, fileID string) error
	AddUpdate(ctx context.Context, u *models.ProjectUpdate) error

	// ToggleLike flips userID's like and reports whether it is now liked.
	ToggleLike(ctx context.Context, projectID, userID string) (bool, error)
	// Repost records userID's repost once and returns the repost count.
	Repost(ctx context.Context, projectID, userID string) (int, error)

	Close() error
}
