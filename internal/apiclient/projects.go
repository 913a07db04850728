package apiclient

import (
	"context"
	"net/http"

	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

// ProjectService wraps the /projects routes and reshapes their envelopes.
type ProjectService struct {
	client *Client
}

func NewProjectService(client *Client) *ProjectService {
	return &ProjectService{client: client}
}

func (s *ProjectService) ListProjects(ctx context.Context, filters models.ProjectFilters) (*models.Result[[]models.Project], error) {
	env, err := s.client.do(ctx, http.MethodGet, "/projects", filters.Query(), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return &models.Result[[]models.Project]{Success: false, Error: env.Error, Message: env.Message}, nil
	}
	projects := env.Projects
	if projects == nil {
		projects = []models.Project{}
	}
	return &models.Result[[]models.Project]{
		Success:    true,
		Data:       projects,
		Pagination: env.Pagination,
		Message:    env.Message,
	}, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Result[*models.Project], error) {
	env, err := s.client.do(ctx, http.MethodGet, "/projects/"+pathID(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return projectResult(env), nil
}

// CreateProject normalizes and validates req, then posts it. A request that
// fails validation is never sent.
func (s *ProjectService) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Result[*models.Project], error) {
	validation.NormalizeCreateProject(&req)
	if err := validation.ValidateCreateProject(&req); err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, http.MethodPost, "/projects", nil, req)
	if err != nil {
		return nil, err
	}
	return projectResult(env), nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, req models.UpdateProjectRequest) (*models.Result[*models.Project], error) {
	validation.NormalizeUpdateProject(&req)
	if err := validation.ValidateUpdateProject(&req); err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, http.MethodPut, "/projects/"+pathID(id), nil, req)
	if err != nil {
		return nil, err
	}
	return projectResult(env), nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) (*models.MessageResult, error) {
	env, err := s.client.do(ctx, http.MethodDelete, "/projects/"+pathID(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return messageResult(env), nil
}

// AddFile registers file metadata on a project. Unlike ProjectFileService
// it does not check the ID shape.
func (s *ProjectService) AddFile(ctx context.Context, projectID string, req models.AddFileRequest) (*models.Result[*models.ProjectFile], error) {
	if err := validation.ValidateAddFile(&req); err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, http.MethodPost, "/projects/"+pathID(projectID)+"/files", nil, req)
	if err != nil {
		return nil, err
	}
	return fileResult(env), nil
}

func (s *ProjectService) DeleteFile(ctx context.Context, projectID, fileID string) (*models.MessageResult, error) {
	env, err := s.client.do(ctx, http.MethodDelete, "/projects/"+pathID(projectID)+"/files/"+pathID(fileID), nil, nil)
	if err != nil {
		return nil, err
	}
	return messageResult(env), nil
}

func (s *ProjectService) AddUpdate(ctx context.Context, projectID string, req models.AddUpdateRequest) (*models.Result[*models.ProjectUpdate], error) {
	if err := validation.ValidateAddUpdate(&req); err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, http.MethodPost, "/projects/"+pathID(projectID)+"/updates", nil, req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return &models.Result[*models.ProjectUpdate]{Success: false, Error: env.Error, Message: env.Message}, nil
	}
	return &models.Result[*models.ProjectUpdate]{Success: true, Data: env.Update, Message: env.Message}, nil
}

func (s *ProjectService) LikeProject(ctx context.Context, id string) (*models.LikeResult, error) {
	env, err := s.client.do(ctx, http.MethodPost, "/projects/"+pathID(id)+"/like", nil, nil)
	if err != nil {
		return nil, err
	}
	result := &models.LikeResult{Success: env.Success, Message: env.Message, Error: env.Error}
	if env.Liked != nil {
		result.Liked = *env.Liked
	}
	return result, nil
}

func (s *ProjectService) RepostProject(ctx context.Context, id string) (*models.RepostResult, error) {
	env, err := s.client.do(ctx, http.MethodPost, "/projects/"+pathID(id)+"/repost", nil, nil)
	if err != nil {
		return nil, err
	}
	result := &models.RepostResult{Success: env.Success, Message: env.Message, Error: env.Error}
	if env.RepostCount != nil {
		result.RepostCount = *env.RepostCount
	}
	return result, nil
}

func projectResult(env *models.Envelope) *models.Result[*models.Project] {
	if !env.Success {
		return &models.Result[*models.Project]{Success: false, Error: env.Error, Message: env.Message}
	}
	return &models.Result[*models.Project]{Success: true, Data: env.Project, Message: env.Message}
}

func fileResult(env *models.Envelope) *models.Result[*models.ProjectFile] {
	if !env.Success {
		return &models.Result[*models.ProjectFile]{Success: false, Error: env.Error, Message: env.Message}
	}
	return &models.Result[*models.ProjectFile]{Success: true, Data: env.File, Message: env.Message}
}

func messageResult(env *models.Envelope) *models.MessageResult {
	return &models.MessageResult{Success: env.Success, Message: env.Message, Error: env.Error}
}
