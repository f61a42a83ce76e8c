package gcs

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

func TestClientOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.GCSConfig
		want int
	}{
		{name: "default credentials", cfg: config.GCSConfig{}, want: 1},
		{name: "credentials file", cfg: config.GCSConfig{CredentialsFile: "/etc/gcs.json"}, want: 2},
		{name: "inline credentials", cfg: config.GCSConfig{CredentialsJSON: `{"type":"service_account"}`}, want: 2},
		{name: "inline wins over file", cfg: config.GCSConfig{CredentialsFile: "/etc/gcs.json", CredentialsJSON: "{}"}, want: 2},
		{name: "emulator endpoint", cfg: config.GCSConfig{Endpoint: "http://localhost:4443/storage/v1/", CredentialsFile: "/etc/gcs.json"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, ClientOptions(tt.cfg), tt.want)
		})
	}
}

func TestBackupObject(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vocabulary.db.json.backup.2024-03-01T08-00-00-000Z",
		BackupObject("vocabulary.db.json", "2024-03-01T08-00-00-000Z"))
}

// TestBackend_Emulator runs against a Cloud Storage emulator such as
// fake-gcs-server when GCS_TEST_ENDPOINT and GCS_TEST_BUCKET are set.
func TestBackend_Emulator(t *testing.T) {
	endpoint, bucket := os.Getenv("GCS_TEST_ENDPOINT"), os.Getenv("GCS_TEST_BUCKET")
	if testing.Short() || endpoint == "" || bucket == "" {
		t.Skip("GCS_TEST_ENDPOINT and GCS_TEST_BUCKET not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	object := fmt.Sprintf("test-%s.json", uuid.New().String()[:8])
	b, err := New(ctx, config.GCSConfig{Endpoint: endpoint, Bucket: bucket, Object: object})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNoDocument)

	size, err := b.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	require.NoError(t, b.Save(ctx, []byte(`{"version":"1.0.0"}`)))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0.0"}`, string(got))

	size, err = b.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), size)

	loc, err := b.Backup(ctx, "2024-03-01T08-00-00-000Z")
	require.NoError(t, err)
	assert.Equal(t, "gs://"+bucket+"/"+object+".backup.2024-03-01T08-00-00-000Z", loc)
}
