// Package files provides a local-disk implementation of core.FileStore.
package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
)

type localStore struct {
	root    string
	baseURL string
}

var _ core.FileStore = (*localStore)(nil) // interface compliance check

// NewLocalStore stores uploads under conf.Media.Root, one directory per
// bucket, and serves them under conf.Media.BaseURL.
func NewLocalStore(conf *core.Config) *localStore {
	return &localStore{
		root:    conf.Media.Root,
		baseURL: strings.TrimRight(conf.Media.BaseURL, "/"),
	}
}

func (st *localStore) Save(ctx context.Context, bucket, path string, r io.Reader, upsert bool) error {
	dst := filepath.Join(st.root, bucket, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "creating media directory")
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating media file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, r); err != nil {
		return errors.Wrap(err, "writing media file")
	}
	return nil
}

func (st *localStore) PublicURL(bucket, path string) string {
	return st.baseURL + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}
