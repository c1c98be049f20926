package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	appconfig "github.com/fathoor/custodia/internal/config"
	"github.com/fathoor/custodia/internal/domain"
)

// GDriveStorage keeps archives in a single Drive folder, authenticated with
// a service-account credentials file.
type GDriveStorage struct {
	service  *drive.Service
	folderID string
}

func NewGDrive(cfg *appconfig.GDriveConfig) (*GDriveStorage, error) {
	service, err := drive.NewService(context.Background(),
		option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GDriveStorage{
		service:  service,
		folderID: cfg.FolderID,
	}, nil
}

func (g *GDriveStorage) Upload(ctx context.Context, localPath string, key string) error {
	payload, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("%w: read archive: %v", domain.ErrUpload, err)
	}

	meta := &drive.File{
		Name:    key,
		Parents: []string{g.folderID},
	}

	_, err = g.service.Files.Create(meta).
		Media(bytes.NewReader(payload)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", domain.ErrUpload, key, err)
	}

	return nil
}

func (g *GDriveStorage) List(ctx context.Context) ([]domain.StoredObject, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", g.folderID)

	var objects []domain.StoredObject
	pageToken := ""
	for {
		call := g.service.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, modifiedTime)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrList, err)
		}

		for _, file := range fileList.Files {
			modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
			if err != nil {
				// An unparsable timestamp must not make the file look ancient.
				continue
			}
			objects = append(objects, domain.StoredObject{
				Key:          file.Name,
				LastModified: modified,
			})
		}

		if fileList.NextPageToken == "" {
			break
		}
		pageToken = fileList.NextPageToken
	}

	return objects, nil
}

// DeleteBatch removes the named files one by one; Drive has no multi-object
// delete call.
func (g *GDriveStorage) DeleteBatch(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := g.deleteByName(ctx, key); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrDelete, key, err)
		}
	}
	return nil
}

func (g *GDriveStorage) deleteByName(ctx context.Context, name string) error {
	query := fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", g.folderID, name)

	fileList, err := g.service.Files.List().
		Q(query).
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to find file: %w", err)
	}

	for _, file := range fileList.Files {
		if err := g.service.Files.Delete(file.Id).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}

	return nil
}
