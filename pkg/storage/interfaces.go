package storage

import "io"

// Storage holds original photo assets. Previews and framed variants are
// always rendered to local disk regardless of the backend configured here.
type Storage interface {
	Upload(key string, reader io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}
