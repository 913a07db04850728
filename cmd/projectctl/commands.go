package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hobbyhub-client/internal/apiclient"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/screens"
	"hobbyhub-client/internal/services"
	"hobbyhub-client/internal/supabase"
	"hobbyhub-client/internal/validation"
)

type app struct {
	projects *apiclient.ProjectService
	files    *apiclient.ProjectFileService
	uploads  *services.FileUploadService
	storage  *supabase.StorageClient
	tokens   apiclient.TokenSource
	out      io.Writer
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		*s = append(*s, part)
	}
	return nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "files":
		return a.listFiles(ctx, args)
	case "add-file":
		return a.addFile(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "rm-file":
		return a.removeFile(ctx, args)
	case "updates":
		return a.listUpdates(ctx, args)
	case "post-update":
		return a.postUpdate(ctx, args)
	case "like":
		return a.like(ctx, args)
	case "repost":
		return a.repost(ctx, args)
	case "token":
		return a.token(ctx)
	case "help", "-h", "--help":
		usage()
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func requireID(id string) error {
	if id == "" {
		return errors.New("-id is required")
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlags("list")
	var tags stringList
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	search := fs.String("search", "", "free-text search")
	fs.Var(&tags, "tag", "tag filter, repeatable")
	status := fs.String("status", "", "status filter")
	difficulty := fs.String("difficulty", "", "difficulty filter")
	visibility := fs.String("visibility", "", "visibility filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.projects.ListProjects(ctx, models.ProjectFilters{
		Page:       *page,
		Limit:      *limit,
		Search:     *search,
		Tags:       tags,
		Status:     *status,
		Difficulty: models.Difficulty(*difficulty),
		Visibility: models.Visibility(*visibility),
	})
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := newFlags("get")
	id := fs.String("id", "", "project ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	res, err := a.projects.GetProject(ctx, *id)
	if err != nil {
		return err
	}
	return a.print(res)
}

// create drives the create-project form so the same local rules apply as in the app.
func (a *app) create(ctx context.Context, args []string) error {
	fs := newFlags("create")
	var tags stringList
	title := fs.String("title", "", "project title")
	description := fs.String("description", "", "project description")
	fs.Var(&tags, "tag", "tag, repeatable or comma separated")
	visibility := fs.String("visibility", "", "public, squad_only or private")
	difficulty := fs.String("difficulty", "", "beginner, intermediate or advanced")
	status := fs.String("status", "", "status label")
	hours := fs.String("hours", "", "estimated hours")
	thumbnail := fs.String("thumbnail", "", "thumbnail URL")
	squad := fs.String("squad", "", "create inside this squad")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := screens.NewCreateProjectScreen(a.projects, *squad)
	form.Title = *title
	form.Description = *description
	form.Status = *status
	form.EstimatedHours = *hours
	form.ThumbnailURL = *thumbnail
	if *visibility != "" {
		form.Visibility = models.Visibility(*visibility)
	}
	if *difficulty != "" {
		form.Difficulty = models.Difficulty(*difficulty)
	}
	for _, tag := range tags {
		if _, err := form.AddTag(tag); err != nil {
			return err
		}
	}

	project, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	return a.print(project)
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlags("update")
	var tags stringList
	id := fs.String("id", "", "project ID")
	title := fs.String("title", "", "project title")
	description := fs.String("description", "", "project description")
	fs.Var(&tags, "tag", "replace tags, repeatable")
	visibility := fs.String("visibility", "", "visibility")
	difficulty := fs.String("difficulty", "", "difficulty")
	status := fs.String("status", "", "status label")
	hours := fs.String("hours", "", "estimated hours")
	thumbnail := fs.String("thumbnail", "", "thumbnail URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	var req models.UpdateProjectRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = title
		case "description":
			req.Description = description
		case "tag":
			req.Tags = tags
		case "visibility":
			v := models.Visibility(*visibility)
			req.Visibility = &v
		case "difficulty":
			d := models.Difficulty(*difficulty)
			req.Difficulty = &d
		case "status":
			req.Status = status
		case "hours":
			req.EstimatedHours = validation.ParsePositiveInt(*hours)
		case "thumbnail":
			req.ThumbnailURL = thumbnail
		}
	})

	res, err := a.projects.UpdateProject(ctx, *id, req)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlags("delete")
	id := fs.String("id", "", "project ID")
	purge := fs.Bool("purge-storage", false, "also remove the project's uploaded objects")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	res, err := a.projects.DeleteProject(ctx, *id)
	if err != nil {
		return err
	}
	if *purge && res.Success {
		if a.storage == nil {
			return errors.New("storage is not configured, nothing purged")
		}
		removed, err := a.storage.RemoveProject(*id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "removed %d stored objects\n", removed)
	}
	return a.print(res)
}

func (a *app) listFiles(ctx context.Context, args []string) error {
	fs := newFlags("files")
	id := fs.String("id", "", "project ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen := screens.NewProjectFilesScreen(a.files, *id)
	if err := screen.Load(ctx); err != nil {
		return err
	}
	for _, f := range screen.Files() {
		fmt.Fprintf(a.out, "%-8s %s  %s  %d bytes\n", models.FileIcon(f.FileType), f.ID, f.Filename, f.FileSize)
	}
	return nil
}

func (a *app) addFile(ctx context.Context, args []string) error {
	fs := newFlags("add-file")
	id := fs.String("id", "", "project ID")
	name := fs.String("name", "", "file name")
	fileURL := fs.String("url", "", "file URL")
	fileType := fs.String("type", "", "file type")
	size := fs.String("size", "", "file size in bytes")
	description := fs.String("description", "", "file description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen := screens.NewProjectFilesScreen(a.files, *id)
	screen.OpenAddModal()
	screen.Form = screens.FileForm{
		Filename:    *name,
		FileURL:     *fileURL,
		FileType:    *fileType,
		FileSize:    *size,
		Description: *description,
	}
	file, err := screen.SubmitFile(ctx)
	if err != nil {
		return err
	}
	return a.print(file)
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := newFlags("upload")
	id := fs.String("id", "", "project ID")
	path := fs.String("path", "", "local file to upload")
	description := fs.String("description", "", "file description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.uploads == nil {
		return errors.New("storage is not configured: set SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY")
	}
	if *path == "" {
		return errors.New("-path is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *path, err)
	}
	file, err := a.uploads.Upload(ctx, *id, services.Upload{
		Filename:    filepath.Base(*path),
		Data:        data,
		Description: *description,
	})
	if err != nil {
		return err
	}
	return a.print(file)
}

func (a *app) removeFile(ctx context.Context, args []string) error {
	fs := newFlags("rm-file")
	id := fs.String("id", "", "project ID")
	fileID := fs.String("file", "", "file ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen := screens.NewProjectFilesScreen(a.files, *id)
	screen.RequestDelete(*fileID)
	if err := screen.ConfirmDelete(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", *fileID)
	return nil
}

func (a *app) listUpdates(ctx context.Context, args []string) error {
	fs := newFlags("updates")
	id := fs.String("id", "", "project ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	screen := screens.NewProjectUpdatesScreen(a.projects, *id)
	if err := screen.Load(ctx); err != nil {
		return err
	}
	return a.print(screen.Updates())
}

func (a *app) postUpdate(ctx context.Context, args []string) error {
	fs := newFlags("post-update")
	id := fs.String("id", "", "project ID")
	title := fs.String("title", "", "update title")
	content := fs.String("content", "", "update text")
	progress := fs.String("progress", "", "progress percentage 0-100")
	hours := fs.String("hours", "", "hours logged")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	screen := screens.NewProjectUpdatesScreen(a.projects, *id)
	screen.Form = screens.UpdateForm{Title: *title, Content: *content, Progress: *progress, Hours: *hours}
	update, err := screen.SubmitUpdate(ctx)
	if err != nil {
		return err
	}
	return a.print(update)
}

func (a *app) like(ctx context.Context, args []string) error {
	fs := newFlags("like")
	id := fs.String("id", "", "project ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	res, err := a.projects.LikeProject(ctx, *id)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) repost(ctx context.Context, args []string) error {
	fs := newFlags("repost")
	id := fs.String("id", "", "project ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	res, err := a.projects.RepostProject(ctx, *id)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) token(ctx context.Context) error {
	if a.tokens == nil {
		return errors.New("no token source configured")
	}
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}
