package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Faultbox/fridgeview/internal/config"
)

// ErrNoSource is returned when no source handles a URI's scheme.
var ErrNoSource = errors.New("no source for uri")

// Source fetches raw model bytes for a URI.
type Source interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FileSource reads plain paths and file:// URIs. Relative paths are resolved
// under Root.
type FileSource struct {
	Root string
}

// NewFileSource creates a file source rooted at root.
func NewFileSource(root string) *FileSource {
	return &FileSource{Root: root}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// MinioSource fetches s3://bucket/key URIs from an S3-compatible store.
type MinioSource struct {
	client *minio.Client
}

// NewMinioSource connects to the endpoint in cfg.
func NewMinioSource(cfg config.MinioConfig) (*MinioSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &MinioSource{client: client}, nil
}

// Fetch downloads the object named by uri.
func (s *MinioSource) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := splitObjectURI(uri)
	if err != nil {
		return nil, err
	}

	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", bucket, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("downloading %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func splitObjectURI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parsing %q: %w", uri, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("object uri %q needs bucket and key", uri)
	}
	return u.Host, key, nil
}

// SchemeRouter dispatches to a source by URI scheme. URIs without a scheme
// use the "file" entry.
type SchemeRouter map[string]Source

// Fetch implements Source.
func (r SchemeRouter) Fetch(ctx context.Context, uri string) ([]byte, error) {
	scheme := "file"
	if i := strings.Index(uri, "://"); i > 0 {
		scheme = strings.ToLower(uri[:i])
	}
	src, ok := r[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, uri)
	}
	return src.Fetch(ctx, uri)
}
