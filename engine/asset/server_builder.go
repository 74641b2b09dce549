package asset

import (
	"strings"
	"time"
)

// ServerBuilderOption is a functional option for configuring a Server via NewServer.
type ServerBuilderOption func(*server)

// WithLoader registers a loader for a file extension.
//
// Parameters:
//   - ext: the extension including the dot, e.g. ".glb"
//   - l: the loader
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithLoader(ext string, l Loader) ServerBuilderOption {
	return func(s *server) {
		s.loaders[strings.ToLower(ext)] = l
	}
}

// WithRoot reads assets from the given directory.
//
// Parameters:
//   - dir: the asset root directory
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithRoot(dir string) ServerBuilderOption {
	return func(s *server) {
		s.read = DirReader(dir)
	}
}

// WithReader replaces the file reader, e.g. with an HTTP fetcher on the web.
//
// Parameters:
//   - read: the reader
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithReader(read ReadFunc) ServerBuilderOption {
	return func(s *server) {
		s.read = read
	}
}

// WithWorkers sets the decode worker pool size. Values <= 0 keep the default.
//
// Parameters:
//   - workers: maximum concurrent decodes
//   - idleTimeout: how long an idle worker lingers before exiting
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithWorkers(workers int, idleTimeout time.Duration) ServerBuilderOption {
	return func(s *server) {
		if workers > 0 {
			s.workers = workers
		}
		if idleTimeout > 0 {
			s.idleTimeout = idleTimeout
		}
	}
}
