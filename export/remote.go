package export

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"xorkevin.dev/kerrors"
)

// S3Options configures access to S3 or an S3-compatible endpoint. The zero
// value falls back to the ambient AWS configuration.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local"
)

func detectScheme(path string) urlScheme {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lowerPath, "s3://"):
		return schemeS3
	case strings.HasPrefix(lowerPath, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lowerPath, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lowerPath, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// OpenReader opens a reader for a local path, file://, http(s)://, or
// s3:// URL.
func OpenReader(ctx context.Context, path string, opts S3Options) (io.ReadCloser, error) {
	switch scheme := detectScheme(path); scheme {
	case schemeLocal, schemeFile:
		localPath := path
		if scheme == schemeFile {
			localPath = strings.TrimPrefix(path, "file://")
		}
		return osOpen(localPath)

	case schemeHTTP, schemeHTTPS:
		return openHTTPReader(ctx, path)

	case schemeS3:
		return openS3Reader(ctx, path, opts)

	default:
		return nil, kerrors.WithMsg(nil, "Unsupported URL scheme: "+path)
	}
}

// OpenWriter opens a writer for a local path, file://, or s3:// URL.
// HTTP destinations are not writable.
func OpenWriter(ctx context.Context, path string, opts S3Options) (io.WriteCloser, error) {
	switch scheme := detectScheme(path); scheme {
	case schemeLocal, schemeFile:
		localPath := path
		if scheme == schemeFile {
			localPath = strings.TrimPrefix(path, "file://")
		}
		return osCreate(localPath)

	case schemeHTTP, schemeHTTPS:
		return nil, kerrors.WithMsg(nil, "HTTP destinations are read only")

	case schemeS3:
		return openS3Writer(ctx, path, opts)

	default:
		return nil, kerrors.WithMsg(nil, "Unsupported URL scheme: "+path)
	}
}

// ReadScript reads an entire SQL script from a local path or URL.
func ReadScript(ctx context.Context, path string, opts S3Options) (string, error) {
	r, err := OpenReader(ctx, path, opts)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", kerrors.WithMsg(err, "Failed to read script")
	}
	return string(data), nil
}

func openHTTPReader(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{
		// generous timeout for large files
		Timeout: 5 * time.Minute,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Invalid HTTP URL")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, kerrors.WithMsg(err, "HTTP request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, kerrors.WithMsg(nil, "HTTP request returned status "+resp.Status)
	}
	return resp.Body, nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts.
func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", kerrors.WithMsg(nil, "Invalid S3 URL: "+url)
	}
	return parts[0], parts[1], nil
}

func getS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to load AWS config")
	}

	clientOpts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// for S3-compatible services
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func openS3Reader(ctx context.Context, url string, opts S3Options) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}
	client, err := getS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to get S3 object")
	}
	return resp.Body, nil
}

// s3Writer buffers writes and uploads the object on Close.
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, kerrors.WithMsg(nil, "Writer is closed")
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
		return kerrors.WithMsg(err, "Failed to upload to S3")
	}
	return nil
}

func openS3Writer(ctx context.Context, url string, opts S3Options) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}
	client, err := getS3Client(ctx, opts)
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

// osOpen wraps os.Open so tests can swap it out.
var osOpen = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// osCreate wraps os.Create so tests can swap it out.
var osCreate = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
