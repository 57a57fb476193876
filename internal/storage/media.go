// Package storage uploads project artifacts to the media bucket and hands
// back durable public URLs. Nothing else in the system touches the files
// again; only the URLs travel onward.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Options struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, for S3-compatible stores
	PublicBaseURL string
}

// MediaStore writes blobs to one bucket. Keys are caller-derived and never
// overwritten.
type MediaStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewMediaStore(ctx context.Context, opts Options) (*MediaStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaStore{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the blob under key and returns its public URL. An existing
// object under the same key is an error, not an overwrite.
func (m *MediaStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:       aws.String(m.bucket),
		Key:          aws.String(key),
		Body:         body,
		CacheControl: aws.String("max-age=3600"),
		IfNoneMatch:  aws.String("*"),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return m.publicBaseURL + "/" + key, nil
}

// ArtifactKey derives the object key for one of a project's artifacts:
// "<name>-<kind><ext>", e.g. "interview-audio.mp3". The extension comes
// from the uploaded filename.
func ArtifactKey(projectName, kind, filename string) string {
	return fmt.Sprintf("%s-%s%s", sanitizeName(projectName), kind, path.Ext(filename))
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
}
