package asset

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadState is the lifecycle state of an asset.
type LoadState int

const (
	// LoadStateNotLoaded is reported for handles the server never issued.
	LoadStateNotLoaded LoadState = iota
	LoadStateLoading
	LoadStateLoaded
	LoadStateFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "Loading"
	case LoadStateLoaded:
		return "Loaded"
	case LoadStateFailed:
		return "Failed"
	default:
		return "NotLoaded"
	}
}

// ReadFunc reads the raw bytes of a file relative to the asset root.
type ReadFunc func(path string) ([]byte, error)

// Decoded is the result of decoding one file. Root is returned for unlabeled paths,
// Labeled entries for "file#Label" paths.
type Decoded struct {
	Root    any
	Labeled map[string]any
}

// Loader decodes the bytes of one file into assets.
type Loader interface {
	// Load decodes a file.
	//
	// Parameters:
	//   - path: the file path relative to the asset root
	//   - data: the file contents
	//   - read: reads sibling files (external buffers, images) relative to the asset root
	//
	// Returns:
	//   - *Decoded: the decoded root and labeled assets
	//   - error: error if decoding fails
	Load(path string, data []byte, read ReadFunc) (*Decoded, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(path string, data []byte, read ReadFunc) (*Decoded, error)

// Load calls f.
func (f LoaderFunc) Load(path string, data []byte, read ReadFunc) (*Decoded, error) {
	return f(path, data, read)
}

// DirReader returns a ReadFunc that reads files from the given root directory.
//
// Parameters:
//   - root: the asset root directory
//
// Returns:
//   - ReadFunc: the reader
func DirReader(root string) ReadFunc {
	return func(path string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %q: %w", path, err)
		}
		return data, nil
	}
}
