package cache

import (
	"context"
	"os"
	"time"
)

// Loader reads template files on behalf of the cache. It is injected so
// tests and embedders can substitute their own file source; the cache
// itself performs no direct filesystem access.
type Loader interface {
	// Load returns the file content and its modification time.
	Load(ctx context.Context, path string) ([]byte, time.Time, error)

	// Stat returns the file's current modification time without reading it.
	Stat(ctx context.Context, path string) (time.Time, error)
}

// FileLoader is the default Loader backed by the operating system.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(ctx context.Context, path string) ([]byte, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// Stat implements Loader.
func (FileLoader) Stat(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
