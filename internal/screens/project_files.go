package screens

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

const (
	ModalAddFile       = "add-file"
	ModalConfirmDelete = "confirm-delete"
)

// ErrNoPendingDelete is returned by ConfirmDelete when no file was picked.
var ErrNoPendingDelete = errors.New("no file selected for deletion")

// FileManager is what the files screen needs from the file service.
type FileManager interface {
	ListFiles(ctx context.Context, projectID string) (*models.Result[[]models.ProjectFile], error)
	AddFile(ctx context.Context, projectID string, req models.AddFileRequest) (*models.Result[*models.ProjectFile], error)
	DeleteFile(ctx context.Context, projectID, fileID string) (*models.MessageResult, error)
}

// FileForm is the add-file modal's input, as typed.
type FileForm struct {
	Filename    string
	FileURL     string
	FileType    string
	FileSize    string
	Description string
}

func (f FileForm) request() models.AddFileRequest {
	req := models.AddFileRequest{
		Filename: strings.TrimSpace(f.Filename),
		FileURL:  strings.TrimSpace(f.FileURL),
		FileType: strings.TrimSpace(f.FileType),
	}
	if size, err := strconv.ParseInt(strings.TrimSpace(f.FileSize), 10, 64); err == nil && size > 0 {
		req.FileSize = size
	}
	if desc := strings.TrimSpace(f.Description); desc != "" {
		req.Description = &desc
	}
	return req
}

// ProjectFilesScreen lists a project's files with an add modal, per-row
// menus and a delete confirmation.
type ProjectFilesScreen struct {
	State
	Form FileForm

	modals Toggles
	menus  Toggles

	files     FileManager
	projectID string

	mu            sync.Mutex
	list          []models.ProjectFile
	pendingDelete string
	errs          validation.Errors
}

func NewProjectFilesScreen(files FileManager, projectID string) *ProjectFilesScreen {
	return &ProjectFilesScreen{files: files, projectID: projectID}
}

// Files returns a copy of the list as last loaded or edited.
func (s *ProjectFilesScreen) Files() []models.ProjectFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProjectFile, len(s.list))
	copy(out, s.list)
	return out
}

// Load replaces the list with the server's.
func (s *ProjectFilesScreen) Load(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	res, err := s.files.ListFiles(ctx, s.projectID)
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to load files")
	}
	s.finish(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.list = res.Data
	s.mu.Unlock()
	return nil
}

func (s *ProjectFilesScreen) OpenAddModal() {
	s.menus.CloseAll()
	s.modals.Open(ModalAddFile)
}

// CloseAddModal hides the modal and discards what was typed.
func (s *ProjectFilesScreen) CloseAddModal() {
	s.modals.Close(ModalAddFile)
	s.Form = FileForm{}
	s.errs = nil
}

func (s *ProjectFilesScreen) AddModalOpen() bool {
	return s.modals.IsOpen(ModalAddFile)
}

func (s *ProjectFilesScreen) FieldError(field string) string {
	return s.errs.Get(field)
}

// SubmitFile registers the form's file. Filename and URL are required and
// checked before any request.
func (s *ProjectFilesScreen) SubmitFile(ctx context.Context) (*models.ProjectFile, error) {
	req := s.Form.request()
	s.errs = nil
	if err := validation.ValidateAddFile(&req); err != nil {
		s.errs = err.(validation.Errors)
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	res, err := s.files.AddFile(ctx, s.projectID, req)
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to add file")
	}
	s.finish(err)
	if err != nil {
		return nil, err
	}

	if res.Data != nil {
		s.mu.Lock()
		s.list = append(s.list, *res.Data)
		s.mu.Unlock()
	}
	s.CloseAddModal()
	return res.Data, nil
}

// ToggleMenu opens the row menu for fileID and closes any other.
func (s *ProjectFilesScreen) ToggleMenu(fileID string) bool {
	return s.menus.Only(fileID)
}

func (s *ProjectFilesScreen) MenuOpen(fileID string) bool {
	return s.menus.IsOpen(fileID)
}

// RequestDelete asks for confirmation before deleting fileID.
func (s *ProjectFilesScreen) RequestDelete(fileID string) {
	s.menus.CloseAll()
	s.mu.Lock()
	s.pendingDelete = fileID
	s.mu.Unlock()
	s.modals.Open(ModalConfirmDelete)
}

func (s *ProjectFilesScreen) ConfirmOpen() bool {
	return s.modals.IsOpen(ModalConfirmDelete)
}

func (s *ProjectFilesScreen) PendingDelete() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete
}

func (s *ProjectFilesScreen) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = ""
	s.mu.Unlock()
	s.modals.Close(ModalConfirmDelete)
}

// ConfirmDelete deletes the pending file and drops it from the list once the
// server agrees. On failure the modal stays open so the user can retry.
func (s *ProjectFilesScreen) ConfirmDelete(ctx context.Context) error {
	fileID := s.PendingDelete()
	if fileID == "" {
		return ErrNoPendingDelete
	}
	if err := s.begin(); err != nil {
		return err
	}

	res, err := s.files.DeleteFile(ctx, s.projectID, fileID)
	if err == nil && !res.Success {
		err = rejected(res.Error, "Failed to delete file")
	}
	s.finish(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.list[:0]
	for _, f := range s.list {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	s.list = kept
	s.mu.Unlock()
	s.CancelDelete()
	return nil
}
