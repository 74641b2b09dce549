package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

func TestKeyboardJustPressedLastsOneTick(t *testing.T) {
	k := NewKeyboard()

	k.Press(common.KeySpace)
	k.Update()
	if !k.JustPressed(common.KeySpace) || !k.Pressed(common.KeySpace) {
		t.Fatal("expected press edge on the first tick")
	}

	k.Update()
	if k.JustPressed(common.KeySpace) {
		t.Error("press edge must not repeat while held")
	}
	if !k.Pressed(common.KeySpace) {
		t.Error("key should still be held")
	}
}

func TestKeyboardIgnoresAutoRepeat(t *testing.T) {
	k := NewKeyboard()
	k.Press(common.KeyUp)
	k.Update()

	for i := 0; i < 5; i++ {
		k.Press(common.KeyUp)
		k.Update()
		if k.JustPressed(common.KeyUp) {
			t.Fatalf("tick %d: repeated key-down produced a new edge", i)
		}
	}
}

func TestKeyboardTapWithinOneTick(t *testing.T) {
	k := NewKeyboard()
	k.Press(common.KeyEnter)
	k.Release(common.KeyEnter)
	k.Update()

	if !k.JustPressed(common.KeyEnter) {
		t.Error("a tap between ticks must still report a press edge")
	}
	if !k.JustReleased(common.KeyEnter) {
		t.Error("a tap between ticks must also report a release edge")
	}
	if k.Pressed(common.KeyEnter) {
		t.Error("tapped key should not be held")
	}

	k.Update()
	if k.JustPressed(common.KeyEnter) || k.JustReleased(common.KeyEnter) {
		t.Error("tap edges must last a single tick")
	}
}

func TestKeyboardRelease(t *testing.T) {
	k := NewKeyboard()
	k.Press(common.KeyL)
	k.Update()
	k.Release(common.KeyL)
	k.Update()

	if !k.JustReleased(common.KeyL) {
		t.Error("expected release edge")
	}
	if k.Pressed(common.KeyL) || k.JustPressed(common.KeyL) {
		t.Error("released key reported as pressed")
	}

	k.Update()
	if k.JustReleased(common.KeyL) {
		t.Error("release edge must last one tick")
	}
}

func TestKeyboardPressAgainAfterRelease(t *testing.T) {
	k := NewKeyboard()
	presses := 0
	for i := 0; i < 3; i++ {
		k.Press(common.Key1)
		k.Update()
		if k.JustPressed(common.Key1) {
			presses++
		}
		k.Release(common.Key1)
		k.Update()
	}
	if presses != 3 {
		t.Errorf("presses = %d, want 3", presses)
	}
}
