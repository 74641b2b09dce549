package common

// Virtual key codes shared by every window backend.
// Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyL     = 76  // L key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)

	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// KeyFromCode maps a DOM KeyboardEvent.code string to the matching key code.
// Letters map to their uppercase ASCII value. Unknown codes return false.
//
// Parameters:
//   - code: the KeyboardEvent.code value (e.g. "ArrowUp", "Digit1", "KeyL")
//
// Returns:
//   - uint32: the key code
//   - bool: true if the code is recognized
func KeyFromCode(code string) (uint32, bool) {
	switch code {
	case "Space":
		return KeySpace, true
	case "Enter", "NumpadEnter":
		return KeyEnter, true
	case "Escape":
		return KeyEsc, true
	case "ArrowRight":
		return KeyRight, true
	case "ArrowLeft":
		return KeyLeft, true
	case "ArrowDown":
		return KeyDown, true
	case "ArrowUp":
		return KeyUp, true
	}
	if len(code) == 6 && code[:5] == "Digit" && code[5] >= '0' && code[5] <= '9' {
		return uint32(code[5]), true
	}
	if len(code) == 4 && code[:3] == "Key" && code[3] >= 'A' && code[3] <= 'Z' {
		return uint32(code[3]), true
	}
	return 0, false
}
