package asset

import (
	"errors"
	"sync/atomic"
	"testing"
)

// memoryReader serves files from a map.
func memoryReader(files map[string][]byte) ReadFunc {
	return func(path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, errors.New("not found: " + path)
		}
		return data, nil
	}
}

// countingLoader decodes a file into labels "A" and "B" and counts decode calls.
func countingLoader(calls *atomic.Int32) Loader {
	return LoaderFunc(func(path string, data []byte, _ ReadFunc) (*Decoded, error) {
		calls.Add(1)
		return &Decoded{
			Root:    string(data),
			Labeled: map[string]any{"A": "a:" + string(data), "B": "b:" + string(data)},
		}, nil
	})
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in, file, label string
	}{
		{"Fox.glb#Animation2", "Fox.glb", "Animation2"},
		{"models/Fox.glb", "models/Fox.glb", ""},
		{"a#b#c", "a", "b#c"},
	}
	for _, tt := range tests {
		file, label := SplitPath(tt.in)
		if file != tt.file || label != tt.label {
			t.Errorf("SplitPath(%q) = %q, %q; want %q, %q", tt.in, file, label, tt.file, tt.label)
		}
	}
}

func TestHandleWeak(t *testing.T) {
	h := NewHandle(7, "Fox.glb#Scene0")
	w := h.Weak()
	if !w.IsWeak() || h.IsWeak() {
		t.Error("Weak must not modify the receiver")
	}
	if !w.Same(h) {
		t.Error("weak handle must refer to the same asset")
	}
	if h.String() != "Fox.glb#Scene0" {
		t.Errorf("String() = %q", h.String())
	}
	if !(Handle{}).IsZero() || h.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestServerLoadsLabelsFromOneDecode(t *testing.T) {
	var calls atomic.Int32
	s := NewServer(
		WithReader(memoryReader(map[string][]byte{"fox.glb": []byte("fox")})),
		WithLoader(".glb", countingLoader(&calls)),
	)

	a := s.Load("fox.glb#A")
	b := s.Load("fox.glb#B")
	root := s.Load("fox.glb")
	s.Wait()

	if calls.Load() != 1 {
		t.Errorf("decode calls = %d, want 1", calls.Load())
	}
	for _, tc := range []struct {
		h    Handle
		want string
	}{{a, "a:fox"}, {b, "b:fox"}, {root, "fox"}} {
		if s.State(tc.h) != LoadStateLoaded {
			t.Errorf("%v state = %v", tc.h, s.State(tc.h))
		}
		if got, ok := Get[string](s, tc.h); !ok || got != tc.want {
			t.Errorf("Get(%v) = %q, %v; want %q", tc.h, got, ok, tc.want)
		}
	}
}

func TestServerDeduplicatesPaths(t *testing.T) {
	var calls atomic.Int32
	s := NewServer(
		WithReader(memoryReader(map[string][]byte{"fox.glb": []byte("fox")})),
		WithLoader(".glb", countingLoader(&calls)),
	)
	h1 := s.Load("fox.glb#A")
	h2 := s.Load("fox.glb#A")
	s.Wait()
	if h1 != h2 {
		t.Errorf("handles differ: %v vs %v", h1, h2)
	}

	late := s.Load("fox.glb#B")
	if s.State(late) != LoadStateLoaded {
		t.Error("label requested after decode must resolve immediately")
	}
	if calls.Load() != 1 {
		t.Errorf("decode calls = %d, want 1", calls.Load())
	}
}

func TestServerFailures(t *testing.T) {
	var calls atomic.Int32
	s := NewServer(
		WithReader(memoryReader(map[string][]byte{"fox.glb": []byte("fox")})),
		WithLoader(".glb", countingLoader(&calls)),
	)

	missingFile := s.Load("gone.glb#A")
	missingLabel := s.Load("fox.glb#Nope")
	noLoader := s.Load("fox.obj")
	s.Wait()

	if s.State(missingFile) != LoadStateFailed || s.Err(missingFile) == nil {
		t.Error("missing file should fail")
	}
	if !errors.Is(s.Err(missingLabel), ErrLabelNotFound) {
		t.Errorf("missing label err = %v", s.Err(missingLabel))
	}
	if !errors.Is(s.Err(noLoader), ErrNoLoader) {
		t.Errorf("no loader err = %v", s.Err(noLoader))
	}
	if _, ok := s.Get(missingLabel); ok {
		t.Error("failed asset must not be returned")
	}
}

func TestServerUnknownHandle(t *testing.T) {
	s := NewServer()
	h := NewHandle(42, "x.glb")
	if s.State(h) != LoadStateNotLoaded {
		t.Errorf("state = %v", s.State(h))
	}
	if _, ok := Get[int](s, h); ok {
		t.Error("unknown handle returned a value")
	}
}

func TestGetWrongType(t *testing.T) {
	var calls atomic.Int32
	s := NewServer(
		WithReader(memoryReader(map[string][]byte{"fox.glb": []byte("fox")})),
		WithLoader(".glb", countingLoader(&calls)),
	)
	h := s.Load("fox.glb")
	s.Wait()
	if _, ok := Get[int](s, h); ok {
		t.Error("Get with the wrong type must fail")
	}
}
