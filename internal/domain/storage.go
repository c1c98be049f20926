package domain

import (
	"context"
	"time"
)

// StoredObject is a read-only descriptor of one archive in object storage.
type StoredObject struct {
	Key          string
	LastModified time.Time
}

type ObjectStorage interface {
	Upload(ctx context.Context, localPath string, key string) error
	List(ctx context.Context) ([]StoredObject, error)
	DeleteBatch(ctx context.Context, keys []string) error
}
