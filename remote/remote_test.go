package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/relog-dev/relog/core"
)

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		dest   string
		scheme scheme
	}{
		{"-", schemeStdout},
		{"out.json", schemeLocal},
		{"/tmp/out.json", schemeLocal},
		{"file:///tmp/out.json", schemeFile},
		{"s3://bucket/key.json", schemeS3},
		{"S3://bucket/key.json", schemeS3},
		{"http://host/path", schemeHTTP},
		{"https://host/path", schemeHTTPS},
	}

	for _, tt := range tests {
		if got := detectScheme(tt.dest); got != tt.scheme {
			t.Errorf("Expected scheme %q for %q, got %q", tt.scheme, tt.dest, got)
		}
	}
}

func TestLocalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w, err := NewWriter(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Failed to open writer: %v", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := NewReader(context.Background(), "file://"+path, nil)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Expected 'payload', got %q", data)
	}
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(context.Background(), filepath.Join(t.TempDir(), "nope.json"), nil)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestStdoutWriterDoesNotCloseStdout(t *testing.T) {
	w, err := NewWriter(context.Background(), Stdout, nil)
	if err != nil {
		t.Fatalf("Failed to open stdout writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close stdout writer: %v", err)
	}

	// Stdout must survive closing the wrapper.
	if _, err := os.Stdout.Stat(); err != nil {
		t.Errorf("Expected stdout to remain open, got %v", err)
	}
}

func TestHTTPReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("remote body"))
	}))
	defer server.Close()

	r, err := NewReader(context.Background(), server.URL+"/data", nil)
	if err != nil {
		t.Fatalf("Failed to open HTTP reader: %v", err)
	}
	defer r.Close()

	data, _ := io.ReadAll(r)
	if string(data) != "remote body" {
		t.Errorf("Expected 'remote body', got %q", data)
	}

	_, err = NewReader(context.Background(), server.URL+"/missing", nil)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected not-found error for 404, got %v", err)
	}
}

func TestHTTPWriterRejected(t *testing.T) {
	_, err := NewWriter(context.Background(), "https://host/path", nil)
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("Expected config error for http writer, got %v", err)
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		url     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://bucket/key.json", "bucket", "key.json", false},
		{"s3://bucket/nested/key.json", "bucket", "nested/key.json", false},
		{"s3://bucket", "", "", true},
		{"s3://bucket/", "", "", true},
		{"s3:///key", "", "", true},
	}

	for _, tt := range tests {
		bucket, key, err := parseS3URL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected error for %q", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tt.url, err)
			continue
		}
		if bucket != tt.bucket || key != tt.key {
			t.Errorf("Expected %s/%s for %q, got %s/%s", tt.bucket, tt.key, tt.url, bucket, key)
		}
	}
}

func TestS3WriterBuffersUntilClose(t *testing.T) {
	w := &s3Writer{buffer: make([]byte, 0)}

	if _, err := w.Write([]byte("part one ")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if _, err := w.Write([]byte("part two")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if string(w.buffer) != "part one part two" {
		t.Errorf("Expected buffered payload, got %q", w.buffer)
	}

	w.closed = true
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("Expected write after close to fail")
	}
}
