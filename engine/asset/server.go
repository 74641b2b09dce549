// Package asset loads files in the background and hands out handles to their contents.
package asset

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

var (
	// ErrNoLoader is recorded when no loader is registered for a file extension.
	ErrNoLoader = errors.New("no loader registered for extension")
	// ErrLabelNotFound is recorded when a decoded file has no asset under the requested label.
	ErrLabelNotFound = errors.New("label not found in decoded file")
)

// entry tracks one issued asset path.
type entry struct {
	handle Handle
	state  LoadState
	value  any
	err    error
}

// fileState tracks one file shared by every label loaded from it.
type fileState struct {
	state   LoadState
	decoded *Decoded
	err     error
}

// server is the implementation of the Server interface.
type server struct {
	mu      sync.RWMutex
	nextID  uint64
	ids     map[string]uint64
	entries map[uint64]*entry
	files   map[string]*fileState

	loaders map[string]Loader
	read    ReadFunc

	workers     int
	queueSize   int
	idleTimeout time.Duration
	pool        worker.DynamicWorkerPool
	taskID      int
	pending     sync.WaitGroup
}

// Server loads assets asynchronously.
//
// Load returns a handle immediately; decoding runs on a worker pool. Each file is read and
// decoded once no matter how many labels are requested from it. Results become visible to
// State and Get under the server's lock, so any goroutine may query them.
type Server interface {
	// Load requests the asset at path and returns its handle.
	// Repeated calls with the same path return handles with the same id.
	//
	// Parameters:
	//   - path: asset path relative to the asset root, optionally suffixed with "#Label"
	//
	// Returns:
	//   - Handle: a strong handle to the asset
	Load(path string) Handle

	// State reports the load state of the asset.
	//
	// Parameters:
	//   - h: the asset handle
	//
	// Returns:
	//   - LoadState: the current state
	State(h Handle) LoadState

	// Err returns the failure recorded for the asset, if any.
	//
	// Parameters:
	//   - h: the asset handle
	//
	// Returns:
	//   - error: the load error or nil
	Err(h Handle) error

	// Get returns the decoded asset.
	//
	// Parameters:
	//   - h: the asset handle
	//
	// Returns:
	//   - any: the asset value
	//   - bool: true if the asset is loaded
	Get(h Handle) (any, bool)

	// Wait blocks until every load requested so far has completed or failed.
	Wait()
}

var _ Server = &server{}

// NewServer creates a Server with the provided options.
// Defaults: assets read from the "assets" directory, four workers.
//
// Parameters:
//   - options: functional options for the server
//
// Returns:
//   - Server: the new server
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		ids:         make(map[string]uint64),
		entries:     make(map[uint64]*entry),
		files:       make(map[string]*fileState),
		loaders:     make(map[string]Loader),
		read:        DirReader("assets"),
		workers:     4,
		queueSize:   64,
		idleTimeout: 5 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, s.idleTimeout)
	return s
}

// Get returns the asset behind h as a T.
//
// Parameters:
//   - s: the server holding the asset
//   - h: the asset handle
//
// Returns:
//   - T: the typed asset
//   - bool: true if the asset is loaded and has type T
func Get[T any](s Server, h Handle) (T, bool) {
	var zero T
	v, ok := s.Get(h)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

func (s *server) Load(path string) Handle {
	file, _ := SplitPath(path)

	s.mu.Lock()
	if id, ok := s.ids[path]; ok {
		h := s.entries[id].handle
		s.mu.Unlock()
		return h
	}

	s.nextID++
	h := NewHandle(s.nextID, path)
	e := &entry{handle: h, state: LoadStateLoading}
	s.ids[path] = h.id
	s.entries[h.id] = e

	fs, ok := s.files[file]
	switch {
	case !ok:
		s.files[file] = &fileState{state: LoadStateLoading}
		s.pending.Add(1)
		s.taskID++
		id := s.taskID
		s.mu.Unlock()
		s.submit(id, file)
		return h
	case fs.state != LoadStateLoading:
		resolve(e, fs)
	}
	s.mu.Unlock()
	return h
}

// submit queues decoding of file on the worker pool.
func (s *server) submit(id int, file string) {
	s.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer s.pending.Done()
			decoded, err := s.decode(file)
			s.publish(file, decoded, err)
			return nil, nil
		},
	})
}

func (s *server) decode(file string) (*Decoded, error) {
	ext := strings.ToLower(filepath.Ext(file))
	s.mu.RLock()
	l, ok := s.loaders[ext]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", file, ErrNoLoader, ext)
	}

	data, err := s.read(file)
	if err != nil {
		return nil, err
	}
	decoded, err := l.Load(file, data, s.read)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return decoded, nil
}

// publish stores the decode result and resolves every entry issued for the file.
func (s *server) publish(file string, decoded *Decoded, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.files[file]
	if err != nil {
		log.Printf("[Asset] failed to load %s: %v", file, err)
		fs.state, fs.err = LoadStateFailed, err
	} else {
		fs.state, fs.decoded = LoadStateLoaded, decoded
	}

	for _, e := range s.entries {
		if e.handle.path == file && e.state == LoadStateLoading {
			resolve(e, fs)
			if e.state == LoadStateFailed && err == nil {
				log.Printf("[Asset] %s: %v", e.handle, e.err)
			}
		}
	}
}

// resolve settles e from a finished file.
func resolve(e *entry, fs *fileState) {
	if fs.state == LoadStateFailed {
		e.state, e.err = LoadStateFailed, fs.err
		return
	}
	if e.handle.label == "" {
		e.state, e.value = LoadStateLoaded, fs.decoded.Root
		return
	}
	v, ok := fs.decoded.Labeled[e.handle.label]
	if !ok {
		e.state, e.err = LoadStateFailed, fmt.Errorf("%s: %w", e.handle, ErrLabelNotFound)
		return
	}
	e.state, e.value = LoadStateLoaded, v
}

func (s *server) State(h Handle) LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[h.id]; ok {
		return e.state
	}
	return LoadStateNotLoaded
}

func (s *server) Err(h Handle) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[h.id]; ok {
		return e.err
	}
	return nil
}

func (s *server) Get(h Handle) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h.id]
	if !ok || e.state != LoadStateLoaded {
		return nil, false
	}
	return e.value, true
}

func (s *server) Wait() {
	s.pending.Wait()
}
