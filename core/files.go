package core

import (
	"context"
	"io"
)

// FileStore is any service that can store uploaded files in named buckets
// and serve them back via public URLs.
type FileStore interface {
	// Save writes the file under bucket/path, replacing any existing file
	// when upsert is set.
	Save(ctx context.Context, bucket, path string, r io.Reader, upsert bool) error
	PublicURL(bucket, path string) string
}
