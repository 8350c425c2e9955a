package store

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestNewS3_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  S3Config
		wantErr bool
	}{
		{
			name:    "empty endpoint",
			config:  S3Config{Endpoint: "", Bucket: "test"},
			wantErr: true,
		},
		{
			name:    "empty bucket",
			config:  S3Config{Endpoint: "localhost:9000", Bucket: ""},
			wantErr: true,
		},
		{
			name: "valid config",
			config: S3Config{
				Endpoint:        "localhost:9000",
				Bucket:          "test",
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewS3() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestIntegration_S3Operations tests actual operations against MinIO.
// Skip if MinIO is not running.
func TestIntegration_S3Operations(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	backend, err := NewS3(S3Config{
		Endpoint:        endpoint,
		Bucket:          "webagent-test",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,
	})
	if err != nil {
		t.Fatalf("NewS3() error = %v", err)
	}

	ctx := context.Background()
	if err := backend.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	id := "integration-test-agent"
	payload := []byte(`{"agent_name": "it", "urls": ["https://example.com"], "results": [], "errors": []}`)

	if err := backend.Put(ctx, id, payload); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := backend.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get() = %q, want %q", got, payload)
	}

	ids, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	found := false
	for _, listed := range ids {
		if listed == id {
			found = true
		}
	}
	if !found {
		t.Errorf("List() = %v, missing %q", ids, id)
	}

	if err := backend.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := backend.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := backend.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of absent object error = %v, want ErrNotFound", err)
	}
}
