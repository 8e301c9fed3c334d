// Package remote resolves input and output destinations by URL scheme.
//
// A destination is "-" for standard output, a local path, or a file://,
// s3:// or http(s):// URL. Readers support every scheme; writers support
// everything except http(s). S3 writers buffer the full payload and upload
// on Close, so an interrupted run never leaves a partial object behind.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/relog-dev/relog/core"
)

// Stdout is the destination that writes to standard output.
const Stdout = "-"

// S3Config overrides the AWS default credential chain. All fields are
// optional; a nil config uses the environment.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // custom S3-compatible endpoint
}

type scheme string

const (
	schemeStdout scheme = "stdout"
	schemeLocal  scheme = "local"
	schemeFile   scheme = "file"
	schemeS3     scheme = "s3"
	schemeHTTP   scheme = "http"
	schemeHTTPS  scheme = "https"
)

func detectScheme(dest string) scheme {
	lower := strings.ToLower(dest)
	switch {
	case dest == Stdout:
		return schemeStdout
	case strings.HasPrefix(lower, "s3://"):
		return schemeS3
	case strings.HasPrefix(lower, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lower, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lower, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// NewReader opens dest for reading. "-" is not a valid input destination.
func NewReader(ctx context.Context, dest string, cfg *S3Config) (io.ReadCloser, error) {
	switch detectScheme(dest) {
	case schemeLocal:
		return osOpen(dest)

	case schemeFile:
		return osOpen(strings.TrimPrefix(dest, "file://"))

	case schemeHTTP, schemeHTTPS:
		return openHTTPReader(ctx, dest)

	case schemeS3:
		return openS3Reader(ctx, dest, cfg)

	default:
		return nil, fmt.Errorf("%w: cannot read from destination %q", core.ErrConfig, dest)
	}
}

// NewWriter opens dest for writing. Closing the stdout writer does not
// close the process's standard output.
func NewWriter(ctx context.Context, dest string, cfg *S3Config) (io.WriteCloser, error) {
	switch detectScheme(dest) {
	case schemeStdout:
		return nopWriteCloser{os.Stdout}, nil

	case schemeLocal:
		return osCreate(dest)

	case schemeFile:
		return osCreate(strings.TrimPrefix(dest, "file://"))

	case schemeS3:
		return openS3Writer(ctx, dest, cfg)

	case schemeHTTP, schemeHTTPS:
		return nil, fmt.Errorf("%w: http(s) destinations are read-only", core.ErrConfig)

	default:
		return nil, fmt.Errorf("%w: cannot write to destination %q", core.ErrConfig, dest)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func openHTTPReader(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 5 * time.Minute}

	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: request to %s failed: %v", core.ErrTransport, url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: request to %s returned status %d", core.ErrTransport, url, resp.StatusCode)
	}

	return resp.Body, nil
}

// parseS3URL splits s3://bucket/key into its parts.
func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid S3 URL %q, expected s3://bucket/key", core.ErrConfig, url)
	}
	return parts[0], parts[1], nil
}

func s3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg != nil && cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func openS3Reader(ctx context.Context, url string, cfg *S3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	client, err := s3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get s3://%s/%s: %v", core.ErrTransport, bucket, key, err)
	}

	return resp.Body, nil
}

// s3Writer buffers writes and uploads the whole object on Close.
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, fmt.Errorf("writer is closed")
	}
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   strings.NewReader(string(w.buffer)),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to upload to s3://%s/%s: %v", core.ErrTransport, w.bucket, w.key, err)
	}
	return nil
}

func openS3Writer(ctx context.Context, url string, cfg *S3Config) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	client, err := s3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &s3Writer{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		buffer: make([]byte, 0),
	}, nil
}

// osOpen and osCreate are swapped in tests.
var osOpen = func(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

var osCreate = func(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
