// Package storage holds uploaded binaries. MinIO is used when configured;
// otherwise files land on local disk and are served by the API itself.
package storage

import (
	"context"
	"io"
)

// Storage saves and removes objects addressed by key ("<folder>/<file>").
type Storage interface {
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (url string, err error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports whether s can currently serve requests. Backends without a
// health probe are assumed ready.
func Ready(ctx context.Context, s Storage) error {
	if p, ok := s.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
