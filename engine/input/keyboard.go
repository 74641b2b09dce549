// Package input turns raw window key events into per-tick keyboard state.
package input

import "sync"

// keyboard is the implementation of the Keyboard interface.
type keyboard struct {
	mu sync.Mutex

	// down is the live key state written by window callbacks.
	down map[uint32]bool
	// pending records keys that went down and up again between two ticks.
	pending map[uint32]bool

	// pressed, justPressed and justReleased are the snapshot latched by Update.
	pressed      map[uint32]bool
	justPressed  map[uint32]bool
	justReleased map[uint32]bool
}

// Keyboard tracks key state between engine ticks.
//
// Window callbacks feed Press and Release from any goroutine. The tick loop calls Update once
// per tick to latch a snapshot, and systems query that snapshot. A key reports JustPressed on
// exactly one tick per physical press, regardless of how long it is held or how many OS
// auto-repeat events arrive.
type Keyboard interface {
	// Press records a key-down event.
	//
	// Parameters:
	//   - key: the virtual key code
	Press(key uint32)

	// Release records a key-up event.
	//
	// Parameters:
	//   - key: the virtual key code
	Release(key uint32)

	// Update latches the events received since the previous call into the queryable snapshot.
	Update()

	// Pressed reports whether the key was held at the last Update.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is down
	Pressed(key uint32) bool

	// JustPressed reports whether the key went from released to pressed during the last tick.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true on the tick of the press edge
	JustPressed(key uint32) bool

	// JustReleased reports whether the key went from pressed to released during the last tick.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true on the tick of the release edge
	JustReleased(key uint32) bool
}

var _ Keyboard = &keyboard{}

// NewKeyboard creates a Keyboard with every key released.
//
// Returns:
//   - Keyboard: the new keyboard state
func NewKeyboard() Keyboard {
	return &keyboard{
		down:         make(map[uint32]bool),
		pending:      make(map[uint32]bool),
		pressed:      make(map[uint32]bool),
		justPressed:  make(map[uint32]bool),
		justReleased: make(map[uint32]bool),
	}
}

func (k *keyboard) Press(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.down[key] {
		return
	}
	k.down[key] = true
	k.pending[key] = true
}

func (k *keyboard) Release(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.down, key)
}

func (k *keyboard) Update() {
	k.mu.Lock()
	defer k.mu.Unlock()

	clear(k.justPressed)
	clear(k.justReleased)

	for key := range k.pending {
		k.justPressed[key] = true
		// tapped between two ticks: both edges land on this tick
		if !k.down[key] && !k.pressed[key] {
			k.justReleased[key] = true
		}
	}
	clear(k.pending)

	for key := range k.pressed {
		if !k.down[key] {
			k.justReleased[key] = true
			delete(k.pressed, key)
		}
	}
	for key := range k.down {
		k.pressed[key] = true
	}
}

func (k *keyboard) Pressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressed[key]
}

func (k *keyboard) JustPressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.justPressed[key]
}

func (k *keyboard) JustReleased(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.justReleased[key]
}
