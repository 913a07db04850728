package screens

import (
	"context"
	"strings"
	"sync"

	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

const ModalAddUpdate = "add-update"

// UpdateSource is what the updates screen needs from the project service.
type UpdateSource interface {
	GetProject(ctx context.Context, id string) (*models.Result[*models.Project], error)
	AddUpdate(ctx context.Context, projectID string, req models.AddUpdateRequest) (*models.Result[*models.ProjectUpdate], error)
}

type UpdateForm struct {
	Title       string
	Content     string
	Progress    string
	Hours       string
	Attachments []string
}

// request drops progress and hours that do not parse instead of rejecting them.
func (f UpdateForm) request() models.AddUpdateRequest {
	req := models.AddUpdateRequest{
		Title:              strings.TrimSpace(f.Title),
		Content:            strings.TrimSpace(f.Content),
		ProgressPercentage: validation.ParseProgress(f.Progress),
		HoursLogged:        validation.ParseHours(f.Hours),
	}
	for _, a := range f.Attachments {
		if a = strings.TrimSpace(a); a != "" {
			req.Attachments = append(req.Attachments, a)
		}
	}
	return req
}

// ProjectUpdatesScreen shows a project's progress updates, newest first.
//
// The backend has no route for deleting an update, so DeleteUpdate only
// hides it locally. Hidden IDs are kept as pending removals and filtered out
// of every later Load until the server stops returning them.
type ProjectUpdatesScreen struct {
	State
	Form UpdateForm

	modals Toggles

	source    UpdateSource
	projectID string

	mu      sync.Mutex
	list    []models.ProjectUpdate
	removed map[string]struct{}
	errs    validation.Errors
}

func NewProjectUpdatesScreen(source UpdateSource, projectID string) *ProjectUpdatesScreen {
	return &ProjectUpdatesScreen{
		source:    source,
		projectID: projectID,
		removed:   make(map[string]struct{}),
	}
}

func (s *ProjectUpdatesScreen) Updates() []models.ProjectUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProjectUpdate, len(s.list))
	copy(out, s.list)
	return out
}

func (s *ProjectUpdatesScreen) Load(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	res, err := s.source.GetProject(ctx, s.projectID)
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to load updates")
	}
	s.finish(err)
	if err != nil {
		return err
	}

	var fetched []models.ProjectUpdate
	if res.Data != nil {
		fetched = res.Data.Updates
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(fetched))
	list := make([]models.ProjectUpdate, 0, len(fetched))
	for _, u := range fetched {
		seen[u.ID] = struct{}{}
		if _, hidden := s.removed[u.ID]; !hidden {
			list = append(list, u)
		}
	}
	for id := range s.removed {
		if _, ok := seen[id]; !ok {
			delete(s.removed, id)
		}
	}
	s.list = list
	return nil
}

func (s *ProjectUpdatesScreen) OpenAddModal() {
	s.modals.Open(ModalAddUpdate)
}

func (s *ProjectUpdatesScreen) CloseAddModal() {
	s.modals.Close(ModalAddUpdate)
	s.Form = UpdateForm{}
	s.errs = nil
}

func (s *ProjectUpdatesScreen) AddModalOpen() bool {
	return s.modals.IsOpen(ModalAddUpdate)
}

func (s *ProjectUpdatesScreen) FieldError(field string) string {
	return s.errs.Get(field)
}

// SubmitUpdate posts the form as a new update and puts the server's copy at
// the top of the list.
func (s *ProjectUpdatesScreen) SubmitUpdate(ctx context.Context) (*models.ProjectUpdate, error) {
	req := s.Form.request()
	s.errs = nil
	if err := validation.ValidateAddUpdate(&req); err != nil {
		s.errs = err.(validation.Errors)
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	res, err := s.source.AddUpdate(ctx, s.projectID, req)
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to add update")
	}
	s.finish(err)
	if err != nil {
		return nil, err
	}

	if res.Data != nil {
		s.mu.Lock()
		s.list = append([]models.ProjectUpdate{*res.Data}, s.list...)
		s.mu.Unlock()
	}
	s.CloseAddModal()
	return res.Data, nil
}

// DeleteUpdate hides updateID locally and reports whether it was listed.
func (s *ProjectUpdatesScreen) DeleteUpdate(updateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.list {
		if u.ID == updateID {
			s.list = append(s.list[:i], s.list[i+1:]...)
			s.removed[updateID] = struct{}{}
			return true
		}
	}
	return false
}

// PendingRemovals lists the IDs hidden locally that the server still returns.
func (s *ProjectUpdatesScreen) PendingRemovals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.removed))
	for id := range s.removed {
		out = append(out, id)
	}
	return out
}
