package screens

import (
	"context"
	"strings"

	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

// ProjectCreator is the slice of the project service the create form needs.
type ProjectCreator interface {
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Result[*models.Project], error)
}

// CreateProjectScreen holds the new-project form. Field values belong to the
// UI goroutine; only the embedded State is safe to read concurrently.
type CreateProjectScreen struct {
	State

	Title          string
	Description    string
	Visibility     models.Visibility
	Difficulty     models.Difficulty
	Status         string
	EstimatedHours string
	ThumbnailURL   string

	projects ProjectCreator
	squadID  string
	tags     validation.TagSet
	errs     validation.Errors
	created  *models.Project
}

// NewCreateProjectScreen builds the form. A non-empty squadID means the form
// was opened from a squad, which is the only context where squad_only
// visibility is offered.
func NewCreateProjectScreen(projects ProjectCreator, squadID string) *CreateProjectScreen {
	s := &CreateProjectScreen{
		projects: projects,
		squadID:  strings.TrimSpace(squadID),
	}
	s.Reset()
	return s
}

// Reset clears the form back to its defaults.
func (s *CreateProjectScreen) Reset() {
	s.Title = ""
	s.Description = ""
	s.Visibility = models.VisibilityPublic
	s.Difficulty = models.DifficultyBeginner
	s.Status = ""
	s.EstimatedHours = ""
	s.ThumbnailURL = ""
	s.tags = validation.TagSet{}
	s.errs = nil
	if s.squadID != "" {
		s.Visibility = models.VisibilitySquadOnly
	}
}

// AddTag adds one tag as typed. Blank and repeated tags are ignored; an
// eleventh distinct tag returns validation.ErrTooManyTags.
func (s *CreateProjectScreen) AddTag(raw string) (bool, error) {
	return s.tags.Add(raw)
}

func (s *CreateProjectScreen) RemoveTag(tag string) bool {
	return s.tags.Remove(tag)
}

func (s *CreateProjectScreen) Tags() []string {
	return s.tags.Tags()
}

func (s *CreateProjectScreen) VisibilityOptions() []models.Visibility {
	if s.squadID != "" {
		return []models.Visibility{models.VisibilityPublic, models.VisibilitySquadOnly, models.VisibilityPrivate}
	}
	return []models.Visibility{models.VisibilityPublic, models.VisibilityPrivate}
}

// Request builds the normalized create payload from the form. Estimated
// hours that are not a positive integer are dropped.
func (s *CreateProjectScreen) Request() models.CreateProjectRequest {
	req := models.CreateProjectRequest{
		Title:          s.Title,
		Description:    s.Description,
		Tags:           s.tags.Tags(),
		Visibility:     s.Visibility,
		Difficulty:     s.Difficulty,
		Status:         strings.TrimSpace(s.Status),
		EstimatedHours: validation.ParsePositiveInt(s.EstimatedHours),
	}
	if thumb := strings.TrimSpace(s.ThumbnailURL); thumb != "" {
		req.ThumbnailURL = &thumb
	}
	if s.squadID != "" {
		squadID := s.squadID
		req.SquadID = &squadID
	}
	validation.NormalizeCreateProject(&req)
	return req
}

// Validate checks the form and keeps the field messages for FieldError.
func (s *CreateProjectScreen) Validate() validation.Errors {
	req := s.Request()
	s.errs = nil
	if err := validation.ValidateCreateProject(&req); err != nil {
		s.errs = err.(validation.Errors)
	}
	return s.errs
}

// FieldError returns the message for a field (json name) from the last
// Validate or Submit.
func (s *CreateProjectScreen) FieldError(field string) string {
	return s.errs.Get(field)
}

// Submit validates locally and only then creates the project. A form that
// fails validation returns validation.Errors and leaves the phase unchanged.
func (s *CreateProjectScreen) Submit(ctx context.Context) (*models.Project, error) {
	if errs := s.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	res, err := s.projects.CreateProject(ctx, s.Request())
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to create project")
	}
	s.finish(err)
	if err != nil {
		return nil, err
	}
	s.created = res.Data
	return res.Data, nil
}

// Created is the project returned by the last successful Submit.
func (s *CreateProjectScreen) Created() *models.Project {
	return s.created
}
