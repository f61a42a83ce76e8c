// Package gcs keeps the vocabulary document as a single Cloud Storage object.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

const opTimeout = 2 * time.Minute

// Backend reads and writes one object in one bucket.
type Backend struct {
	client *storage.Client
	bucket string
	object string
}

// ClientOptions builds storage client options from cfg. An endpoint disables
// authentication; otherwise inline JSON credentials win over a file.
func ClientOptions(cfg config.GCSConfig) []option.ClientOption {
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		return []option.ClientOption{option.WithEndpoint(ep), option.WithoutAuthentication()}
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

// New creates a storage client for cfg.
func New(ctx context.Context, cfg config.GCSConfig) (*Backend, error) {
	client, err := storage.NewClient(ctx, ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return NewWithClient(client, cfg.Bucket, cfg.Object), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *storage.Client, bucket, object string) *Backend {
	return &Backend{client: client, bucket: bucket, object: object}
}

func (b *Backend) handle(name string) *storage.ObjectHandle {
	return b.client.Bucket(b.bucket).Object(name)
}

func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	r, err := b.handle(b.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", b.Location(), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Location(), err)
	}
	return data, nil
}

// Save uploads the document. The object only changes once the upload
// completes, so readers never see a partial document.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	w := b.handle(b.object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", b.Location(), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %s: %w", b.Location(), err)
	}
	return nil
}

// Backup copies the object to "<object>.backup.<stamp>" in the same bucket.
func (b *Backend) Backup(ctx context.Context, stamp string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	name := BackupObject(b.object, stamp)
	_, err := b.handle(name).CopierFrom(b.handle(b.object)).Run(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", store.ErrNoDocument
	}
	if err != nil {
		return "", fmt.Errorf("copy %s -> %s: %w", b.object, name, err)
	}
	return fmt.Sprintf("gs://%s/%s", b.bucket, name), nil
}

func (b *Backend) Location() string {
	return fmt.Sprintf("gs://%s/%s", b.bucket, b.object)
}

// Size reports the object size; a missing object has size zero.
func (b *Backend) Size(ctx context.Context) (int64, error) {
	attrs, err := b.handle(b.object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("attrs %s: %w", b.Location(), err)
	}
	return attrs.Size, nil
}

// Close releases the storage client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// BackupObject names the backup copy of object taken at stamp.
func BackupObject(object, stamp string) string {
	return object + ".backup." + stamp
}
