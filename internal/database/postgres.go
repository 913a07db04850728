package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/models"
)

const projectColumns = `id, owner_id, title, description, tags, visibility, difficulty, status,
	estimated_hours, thumbnail_url, squad_id, like_count, repost_count, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects, checks the connection and applies pending migrations.
func OpenPostgres(ctx context.Context, dbURL string, log *logrus.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := NewMigrator(db, log).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p          models.Project
		visibility string
		difficulty string
		hours      sql.NullInt64
		thumbnail  sql.NullString
		squadID    sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, pq.Array(&p.Tags), &visibility, &difficulty, &p.Status,
		&hours, &thumbnail, &squadID, &p.LikeCount, &p.RepostCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Visibility = models.Visibility(visibility)
	p.Difficulty = models.Difficulty(difficulty)
	if hours.Valid {
		h := int(hours.Int64)
		p.EstimatedHours = &h
	}
	p.ThumbnailURL = nullableString(thumbnail)
	p.SquadID = nullableString(squadID)
	p.Files = []models.ProjectFile{}
	p.Updates = []models.ProjectUpdate{}
	return &p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, opts ListOptions) ([]models.Project, int, error) {
	opts.Normalize()

	args := []interface{}{opts.ViewerID}
	where := []string{"(visibility = 'public' OR owner_id = $1)"}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if opts.Search != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", likePattern(opts.Search))
	}
	if len(opts.Tags) > 0 {
		add("tags @> $%d", pq.Array(opts.Tags))
	}
	if opts.Status != "" {
		add("status = $%d", opts.Status)
	}
	if opts.Difficulty != "" {
		add("difficulty = $%d", opts.Difficulty)
	}
	if opts.Visibility != "" {
		add("visibility = $%d", opts.Visibility)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM projects WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		projectColumns, clause, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term literally anywhere in the column. ILIKE uses
// backslash as its default escape character.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if p.Files, err = s.listFiles(ctx, id); err != nil {
		return nil, err
	}
	if p.Updates, err = s.listUpdates(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) listFiles(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, filename, file_url, file_type, file_size, description, uploaded_by, uploaded_at
		FROM project_files
		WHERE project_id = $1
		ORDER BY uploaded_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []models.ProjectFile{}
	for rows.Next() {
		var (
			f    models.ProjectFile
			desc sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.FileURL, &f.FileType, &f.FileSize,
			&desc, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.Description = nullableString(desc)
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *PostgresStore) listUpdates(ctx context.Context, projectID string) ([]models.ProjectUpdate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, content, progress_percentage, hours_logged, author_id, attachments, created_at
		FROM project_updates
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	defer rows.Close()

	updates := []models.ProjectUpdate{}
	for rows.Next() {
		var (
			u        models.ProjectUpdate
			progress sql.NullInt64
			hours    sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Title, &u.Content, &progress, &hours,
			&u.AuthorID, pq.Array(&u.Attachments), &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		u.ProgressPercentage = nullableInt(progress)
		u.HoursLogged = nullableInt(hours)
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (s *PostgresStore) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, title, description, tags, visibility, difficulty, status,
			estimated_hours, thumbnail_url, squad_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.OwnerID, p.Title, p.Description, pq.Array(p.Tags), string(p.Visibility), string(p.Difficulty),
		p.Status, p.EstimatedHours, p.ThumbnailURL, p.SquadID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *models.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = $2, description = $3, tags = $4, visibility = $5, difficulty = $6, status = $7,
			estimated_hours = $8, thumbnail_url = $9, updated_at = $10
		WHERE id = $1
	`, p.ID, p.Title, p.Description, pq.Array(p.Tags), string(p.Visibility), string(p.Difficulty),
		p.Status, p.EstimatedHours, p.ThumbnailURL, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return expectRow(res)
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return expectRow(res)
}

func (s *PostgresStore) AddFile(ctx context.Context, f *models.ProjectFile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_files (id, project_id, filename, file_url, file_type, file_size, description, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, f.ID, f.ProjectID, f.Filename, f.FileURL, f.FileType, f.FileSize, f.Description, f.UploadedBy, f.UploadedAt)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to add file: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteFile(ctx context.Context, projectID, fileID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM project_files WHERE id = $1 AND project_id = $2", fileID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return expectRow(res)
}

func (s *PostgresStore) AddUpdate(ctx context.Context, u *models.ProjectUpdate) error {
	attachments := u.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_updates (id, project_id, title, content, progress_percentage, hours_logged, author_id, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.ProjectID, u.Title, u.Content, u.ProgressPercentage, u.HoursLogged, u.AuthorID,
		pq.Array(attachments), u.CreatedAt)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to add update: %w", err)
	}
	return nil
}

func (s *PostgresStore) ToggleLike(ctx context.Context, projectID, userID string) (bool, error) {
	var liked bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockProject(ctx, tx, projectID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2", projectID, userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO project_likes (project_id, user_id) VALUES ($1, $2)", projectID, userID); err != nil {
				return err
			}
			liked = true
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET like_count = (SELECT COUNT(*) FROM project_likes WHERE project_id = $1)
			WHERE id = $1
		`, projectID)
		return err
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, err
}

func (s *PostgresStore) Repost(ctx context.Context, projectID, userID string) (int, error) {
	var count int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockProject(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_reposts (project_id, user_id) VALUES ($1, $2)
			ON CONFLICT (project_id, user_id) DO NOTHING
		`, projectID, userID); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `
			UPDATE projects SET repost_count = (SELECT COUNT(*) FROM project_reposts WHERE project_id = $1)
			WHERE id = $1
			RETURNING repost_count
		`, projectID).Scan(&count)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to repost: %w", err)
	}
	return count, err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func lockProject(ctx context.Context, tx *sql.Tx, projectID string) error {
	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM projects WHERE id = $1 FOR UPDATE", projectID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullableInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}
