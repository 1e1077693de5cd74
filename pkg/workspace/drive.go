package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
)

const folderMimeType = "application/vnd.google-apps.folder"

// File is a Drive file or folder.
type File struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
}

// DriveAPI is the subset of Google Drive the drive service needs.
type DriveAPI interface {
	// Recent lists non-trashed files, most recently modified first.
	Recent(ctx context.Context, max int) ([]File, error)
	// Search lists non-trashed files whose name contains query.
	Search(ctx context.Context, query string, max int) ([]File, error)
	CreateFolder(ctx context.Context, name string) (File, error)
	Trash(ctx context.Context, id string) error
	Share(ctx context.Context, id, email, role string) error
}

// Drive manages files in Google Drive.
type Drive struct {
	api DriveAPI
}

func NewDrive(api DriveAPI) *Drive {
	return &Drive{api: api}
}

func (d *Drive) Name() string  { return "drive" }
func (d *Drive) Title() string { return "Drive" }

func (d *Drive) Description() string {
	return "Browse, search, organise and share Google Drive files."
}

func (d *Drive) Shortcuts() []string {
	return []string{"list", "files", "show files", "my files"}
}

func (d *Drive) Actions() []Action {
	return []Action{
		{Name: "list", Description: "List recent files", Params: []Param{
			{Name: "count", Kind: ParamNumber, Example: "10"},
		}},
		{Name: "search", Description: "Search files by name", Params: []Param{
			{Name: "query", Example: "search term", Required: true},
		}},
		{Name: "create_folder", Description: "Create a folder", Params: []Param{
			{Name: "name", Example: "Folder Name", Required: true},
		}},
		{Name: "delete", Description: "Move the file at a list position to trash", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1", Required: true},
		}},
		{Name: "share", Description: "Share a file by list position or name", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1"},
			{Name: "name", Example: "file name"},
			{Name: "email", Example: "user@example.com", Required: true},
			{Name: "role", Example: "reader"},
		}},
	}
}

func (d *Drive) Execute(ctx context.Context, action string, args intent.Args) (string, error) {
	switch action {
	case "list":
		return d.list(ctx, args.IntOr("count", 10))
	case "search":
		return d.search(ctx, args.String("query"))
	case "create_folder":
		name := args.StringOr("name", "New Folder")
		if _, err := d.api.CreateFolder(ctx, name); err != nil {
			return "", fmt.Errorf("create folder: %w", err)
		}
		return fmt.Sprintf("Created folder '%s'", name), nil
	case "delete":
		f, ok, err := d.byIndex(ctx, args.IntOr("index", 1))
		if err != nil {
			return "", err
		}
		if !ok {
			return "Could not find that file.", nil
		}
		if err := d.api.Trash(ctx, f.ID); err != nil {
			return "", fmt.Errorf("trash file %s: %w", f.ID, err)
		}
		return fmt.Sprintf("Deleted '%s'", f.Name), nil
	case "share":
		return d.share(ctx, args)
	default:
		return "", fmt.Errorf("%w: drive %s", ErrUnknownAction, action)
	}
}

func (d *Drive) list(ctx context.Context, max int) (string, error) {
	files, err := d.api.Recent(ctx, max)
	if err != nil {
		return "", fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		return "No files found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your files (%d):\n", len(files))
	for i, f := range files {
		fmt.Fprintf(&b, "  %d. %s\n     Type: %s | Modified: %s\n", i+1,
			truncate(f.Name, 40), shortMime(f.MimeType), truncate(f.ModifiedTime, 10))
	}
	return b.String(), nil
}

func (d *Drive) search(ctx context.Context, query string) (string, error) {
	files, err := d.api.Search(ctx, query, 10)
	if err != nil {
		return "", fmt.Errorf("search files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Sprintf("No files found matching '%s'.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d file(s) matching '%s':\n", len(files), query)
	for i, f := range files {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, f.Name)
	}
	return b.String(), nil
}

func (d *Drive) share(ctx context.Context, args intent.Args) (string, error) {
	email := args.String("email")
	role := args.StringOr("role", "reader")

	var (
		f   File
		ok  bool
		err error
	)
	if name := args.String("name"); name != "" && !args.Has("index") {
		f, ok, err = d.byName(ctx, name)
	} else {
		f, ok, err = d.byIndex(ctx, args.IntOr("index", 1))
	}
	if err != nil {
		return "", err
	}
	if !ok || email == "" {
		return "Need file and email to share.", nil
	}
	if err := d.api.Share(ctx, f.ID, email, role); err != nil {
		return "", fmt.Errorf("share file %s: %w", f.ID, err)
	}
	return fmt.Sprintf("Shared file with %s as %s", email, role), nil
}

func (d *Drive) byIndex(ctx context.Context, index int) (File, bool, error) {
	files, err := d.api.Recent(ctx, 20)
	if err != nil {
		return File{}, false, fmt.Errorf("list files: %w", err)
	}
	f, ok := pick(files, index)
	return f, ok, nil
}

func (d *Drive) byName(ctx context.Context, name string) (File, bool, error) {
	files, err := d.api.Search(ctx, name, 1)
	if err != nil {
		return File{}, false, fmt.Errorf("search files: %w", err)
	}
	f, ok := pick(files, 1)
	return f, ok, nil
}

// shortMime turns "application/vnd.google-apps.document" into "document".
func shortMime(mime string) string {
	if i := strings.LastIndex(mime, "."); i >= 0 {
		return mime[i+1:]
	}
	return truncate(mime, 20)
}
