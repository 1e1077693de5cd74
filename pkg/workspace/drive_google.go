package workspace

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
)

const driveListFields = "files(id, name, mimeType, modifiedTime)"

// GoogleDrive implements DriveAPI with the Drive v3 API.
type GoogleDrive struct {
	svc *drive.Service
}

func NewGoogleDrive(svc *drive.Service) *GoogleDrive {
	return &GoogleDrive{svc: svc}
}

func (g *GoogleDrive) Recent(ctx context.Context, max int) ([]File, error) {
	return g.list(ctx, "trashed=false", max, "modifiedTime desc")
}

func (g *GoogleDrive) Search(ctx context.Context, query string, max int) ([]File, error) {
	q := fmt.Sprintf("name contains '%s' and trashed=false", escapeQuery(query))
	return g.list(ctx, q, max, "")
}

func (g *GoogleDrive) list(ctx context.Context, q string, max int, orderBy string) ([]File, error) {
	call := g.svc.Files.List().Q(q).PageSize(int64(max)).Fields(driveListFields).Context(ctx)
	if orderBy != "" {
		call = call.OrderBy(orderBy)
	}
	res, err := call.Do()
	if err != nil {
		return nil, err
	}
	out := make([]File, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, ModifiedTime: f.ModifiedTime})
	}
	return out, nil
}

func (g *GoogleDrive) CreateFolder(ctx context.Context, name string) (File, error) {
	f, err := g.svc.Files.Create(&drive.File{Name: name, MimeType: folderMimeType}).
		Fields("id, name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return File{}, err
	}
	return File{ID: f.Id, Name: f.Name, MimeType: f.MimeType}, nil
}

func (g *GoogleDrive) Trash(ctx context.Context, id string) error {
	_, err := g.svc.Files.Update(id, &drive.File{Trashed: true}).Context(ctx).Do()
	return err
}

func (g *GoogleDrive) Share(ctx context.Context, id, email, role string) error {
	_, err := g.svc.Permissions.Create(id, &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}).SendNotificationEmail(true).Context(ctx).Do()
	return err
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
