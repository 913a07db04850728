package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/apiclient"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/supabase"
	"hobbyhub-client/internal/validation"
)

// ObjectStore holds the file bytes. *supabase.StorageClient implements it.
type ObjectStore interface {
	Upload(storagePath, contentType string, data []byte) (string, error)
	Remove(storagePath string) error
}

// FileRegistrar records file metadata on a project.
type FileRegistrar interface {
	AddFile(ctx context.Context, projectID string, req models.AddFileRequest) (*models.Result[*models.ProjectFile], error)
}

type Upload struct {
	Filename    string
	Data        []byte
	Description string
}

// FileUploadService pushes a file's bytes to object storage and then
// registers the public URL with the project. When registration fails the
// uploaded object is removed again.
type FileUploadService struct {
	store ObjectStore
	files FileRegistrar
	log   *logrus.Logger
}

func NewFileUploadService(store ObjectStore, files FileRegistrar, log *logrus.Logger) *FileUploadService {
	return &FileUploadService{store: store, files: files, log: log}
}

// ObjectPath is where an upload for projectID is stored. The random prefix
// keeps two uploads with the same name apart.
func ObjectPath(projectID, filename string) string {
	return supabase.ProjectPrefix(projectID) + uuid.NewString() + "-" + filename
}

// DetectContentType sniffs data and returns a bare MIME type without parameters.
func DetectContentType(data []byte) string {
	contentType := mimetype.Detect(data).String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}

func (s *FileUploadService) Upload(ctx context.Context, projectID string, up Upload) (*models.ProjectFile, error) {
	if !validation.IsUUID(projectID) {
		return nil, apiclient.ErrInvalidProjectID
	}
	filename := strings.TrimSpace(filepath.Base(up.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, errors.New("filename is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentType := DetectContentType(up.Data)
	storagePath := ObjectPath(projectID, filename)
	entry := s.log.WithFields(logrus.Fields{
		"project_id":   projectID,
		"storage_path": storagePath,
		"content_type": contentType,
		"size":         len(up.Data),
	})

	publicURL, err := s.store.Upload(storagePath, contentType, up.Data)
	if err != nil {
		entry.WithError(err).Error("upload to storage failed")
		return nil, err
	}

	req := models.AddFileRequest{
		Filename: filename,
		FileURL:  publicURL,
		FileType: contentType,
		FileSize: int64(len(up.Data)),
	}
	if desc := strings.TrimSpace(up.Description); desc != "" {
		req.Description = &desc
	}

	res, err := s.files.AddFile(ctx, projectID, req)
	if err == nil && !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Failed to add file"
		}
		err = errors.New(msg)
	}
	if err != nil {
		entry.WithError(err).Warn("file registration failed, removing uploaded object")
		if rmErr := s.store.Remove(storagePath); rmErr != nil {
			entry.WithError(rmErr).Error("failed to remove orphaned object")
		}
		return nil, fmt.Errorf("failed to register file: %w", err)
	}

	entry.Info("file uploaded")
	return res.Data, nil
}
