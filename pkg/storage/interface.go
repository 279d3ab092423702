package storage

import (
	"context"
	"io"
	"time"
)

// MediaStore abstracts where post and story images live.
type MediaStore interface {
	// Write stores content under key. size may be -1 when unknown.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read retrieves the content for key. The caller closes the reader.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content for key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether content for key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// DownloadURL returns a URL a client can fetch the content from.
	// For S3 this is a presigned GET valid for expires.
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)

	// UploadURL returns a URL a client can upload content to.
	// For S3 this is a presigned PUT valid for expires.
	UploadURL(ctx context.Context, key string, contentType string, expires time.Duration) (string, error)
}
