package archive

import (
	"io"
	"time"
)

// Provider defines the behavior for any archive backend.
type Provider interface {
	List(prefix string) ([]string, error)
	Get(key string) (*FileObject, error)
	Put(key string, body io.ReadSeeker, contentType string) error
	Delete(key string) error
}

// FileObject is the provider-agnostic representation of a stored file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}
