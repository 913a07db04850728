package screens_test

import (
	"context"

	"hobbyhub-client/internal/models"
)

const projectID = "123e4567-e89b-12d3-a456-426614174000"

type fakeProjects struct {
	createCalls []models.CreateProjectRequest
	createRes   *models.Result[*models.Project]
	createErr   error

	getCalls int
	getRes   *models.Result[*models.Project]
	getErr   error

	updateCalls []models.AddUpdateRequest
	updateRes   *models.Result[*models.ProjectUpdate]
	updateErr   error
}

func (f *fakeProjects) CreateProject(_ context.Context, req models.CreateProjectRequest) (*models.Result[*models.Project], error) {
	f.createCalls = append(f.createCalls, req)
	return f.createRes, f.createErr
}

func (f *fakeProjects) GetProject(context.Context, string) (*models.Result[*models.Project], error) {
	f.getCalls++
	return f.getRes, f.getErr
}

func (f *fakeProjects) AddUpdate(_ context.Context, _ string, req models.AddUpdateRequest) (*models.Result[*models.ProjectUpdate], error) {
	f.updateCalls = append(f.updateCalls, req)
	return f.updateRes, f.updateErr
}

type fakeFiles struct {
	listRes *models.Result[[]models.ProjectFile]
	listErr error

	addCalls []models.AddFileRequest
	addRes   *models.Result[*models.ProjectFile]
	addErr   error

	deleteCalls []string
	deleteRes   *models.MessageResult
	deleteErr   error
}

func (f *fakeFiles) ListFiles(context.Context, string) (*models.Result[[]models.ProjectFile], error) {
	return f.listRes, f.listErr
}

func (f *fakeFiles) AddFile(_ context.Context, _ string, req models.AddFileRequest) (*models.Result[*models.ProjectFile], error) {
	f.addCalls = append(f.addCalls, req)
	return f.addRes, f.addErr
}

func (f *fakeFiles) DeleteFile(_ context.Context, _ string, fileID string) (*models.MessageResult, error) {
	f.deleteCalls = append(f.deleteCalls, fileID)
	return f.deleteRes, f.deleteErr
}

// blockingFiles holds ListFiles open until release is closed.
type blockingFiles struct {
	fakeFiles
	started chan struct{}
	release chan struct{}
}

func (f *blockingFiles) ListFiles(ctx context.Context, projectID string) (*models.Result[[]models.ProjectFile], error) {
	close(f.started)
	<-f.release
	return f.fakeFiles.ListFiles(ctx, projectID)
}
