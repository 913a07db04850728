package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hobbyhub-client/internal/models"
)

type memProject struct {
	project models.Project
	likes   map[string]struct{}
	reposts map[string]struct{}
}

// MemoryStore keeps everything in process. It backs the development server
// when no DATABASE_URL is configured, and the handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*memProject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*memProject)}
}

func (s *MemoryStore) ListProjects(_ context.Context, opts ListOptions) ([]models.Project, int, error) {
	opts.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Project, 0)
	for _, mp := range s.projects {
		if matches(mp.project, opts) {
			matched = append(matched, summary(mp.project))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := opts.offset()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matches(p models.Project, opts ListOptions) bool {
	if p.Visibility != models.VisibilityPublic && p.OwnerID != opts.ViewerID {
		return false
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	for _, want := range opts.Tags {
		if !containsString(p.Tags, want) {
			return false
		}
	}
	if opts.Status != "" && p.Status != opts.Status {
		return false
	}
	if opts.Difficulty != "" && string(p.Difficulty) != opts.Difficulty {
		return false
	}
	if opts.Visibility != "" && string(p.Visibility) != opts.Visibility {
		return false
	}
	return true
}

func (s *MemoryStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := clone(mp.project)
	return &p, nil
}

func (s *MemoryStore) CreateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = &memProject{
		project: clone(*p),
		likes:   make(map[string]struct{}),
		reposts: make(map[string]struct{}),
	}
	return nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[p.ID]
	if !ok {
		return ErrNotFound
	}
	files, updates := mp.project.Files, mp.project.Updates
	mp.project = clone(*p)
	mp.project.Files, mp.project.Updates = files, updates
	mp.project.LikeCount = len(mp.likes)
	mp.project.RepostCount = len(mp.reposts)
	return nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) AddFile(_ context.Context, f *models.ProjectFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[f.ProjectID]
	if !ok {
		return ErrNotFound
	}
	mp.project.Files = append(mp.project.Files, *f)
	return nil
}

func (s *MemoryStore) DeleteFile(_ context.Context, projectID, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	for i, f := range mp.project.Files {
		if f.ID == fileID {
			mp.project.Files = append(mp.project.Files[:i], mp.project.Files[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) AddUpdate(_ context.Context, u *models.ProjectUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[u.ProjectID]
	if !ok {
		return ErrNotFound
	}
	mp.project.Updates = append([]models.ProjectUpdate{*u}, mp.project.Updates...)
	return nil
}

func (s *MemoryStore) ToggleLike(_ context.Context, projectID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[projectID]
	if !ok {
		return false, ErrNotFound
	}
	_, liked := mp.likes[userID]
	if liked {
		delete(mp.likes, userID)
	} else {
		mp.likes[userID] = struct{}{}
	}
	mp.project.LikeCount = len(mp.likes)
	return !liked, nil
}

func (s *MemoryStore) Repost(_ context.Context, projectID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.projects[projectID]
	if !ok {
		return 0, ErrNotFound
	}
	mp.reposts[userID] = struct{}{}
	mp.project.RepostCount = len(mp.reposts)
	return mp.project.RepostCount, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// summary is a listing row: the project with its nested collections left empty.
func summary(p models.Project) models.Project {
	out := clone(p)
	out.Files = []models.ProjectFile{}
	out.Updates = []models.ProjectUpdate{}
	return out
}

func clone(p models.Project) models.Project {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	out.Files = append([]models.ProjectFile{}, p.Files...)
	out.Updates = append([]models.ProjectUpdate{}, p.Updates...)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
