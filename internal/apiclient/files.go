package apiclient

import (
	"context"

	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

// ProjectFileService manages a project's files. Every ID that ends up in a
// URL path is checked against the UUID pattern first, and a malformed one
// fails without a request.
type ProjectFileService struct {
	projects *ProjectService
}

func NewProjectFileService(client *Client) *ProjectFileService {
	return &ProjectFileService{projects: NewProjectService(client)}
}

func (s *ProjectFileService) AddFile(ctx context.Context, projectID string, req models.AddFileRequest) (*models.Result[*models.ProjectFile], error) {
	if !validation.IsUUID(projectID) {
		return nil, ErrInvalidProjectID
	}
	return s.projects.AddFile(ctx, projectID, req)
}

func (s *ProjectFileService) DeleteFile(ctx context.Context, projectID, fileID string) (*models.MessageResult, error) {
	if !validation.IsUUID(projectID) {
		return nil, ErrInvalidProjectID
	}
	if !validation.IsUUID(fileID) {
		return nil, ErrInvalidFileID
	}
	return s.projects.DeleteFile(ctx, projectID, fileID)
}

// ListFiles reads the files embedded in the project; the API has no
// separate listing route.
func (s *ProjectFileService) ListFiles(ctx context.Context, projectID string) (*models.Result[[]models.ProjectFile], error) {
	if !validation.IsUUID(projectID) {
		return nil, ErrInvalidProjectID
	}
	res, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return &models.Result[[]models.ProjectFile]{Success: false, Error: res.Error, Message: res.Message}, nil
	}
	files := []models.ProjectFile{}
	if res.Data != nil && res.Data.Files != nil {
		files = res.Data.Files
	}
	return &models.Result[[]models.ProjectFile]{Success: true, Data: files}, nil
}
