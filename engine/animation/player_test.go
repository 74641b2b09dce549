package animation

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

// testClips returns two handles and a lookup over one-second and two-second clips
// translating node 0 along X.
func testClips() (asset.Handle, asset.Handle, ClipLookup) {
	walk := asset.NewHandle(1, "fox.glb#Animation0")
	run := asset.NewHandle(2, "fox.glb#Animation1")
	clips := map[uint64]*Clip{
		walk.ID(): NewClip("walk", []Curve{{
			Node:     0,
			Property: PropertyTranslation,
			Times:    []float32{0, 1},
			Values:   []mgl32.Vec4{{0, 0, 0, 0}, {10, 0, 0, 0}},
		}}),
		run.ID(): NewClip("run", []Curve{{
			Node:     0,
			Property: PropertyTranslation,
			Times:    []float32{0, 2},
			Values:   []mgl32.Vec4{{0, 0, 0, 0}, {0, 20, 0, 0}},
		}}),
	}
	return walk, run, func(h asset.Handle) (*Clip, bool) {
		c, ok := clips[h.ID()]
		return c, ok
	}
}

func TestPlayerDefaults(t *testing.T) {
	p := NewPlayer()
	if p.IsPaused() || p.Speed() != 1 || p.SeekTime() != 0 || p.Elapsed() != 0 {
		t.Errorf("unexpected defaults: paused=%v speed=%v seek=%v elapsed=%v",
			p.IsPaused(), p.Speed(), p.SeekTime(), p.Elapsed())
	}
	if p.RepeatMode() != Never() {
		t.Errorf("repeat = %v, want Never", p.RepeatMode())
	}
}

func TestPlayerRepeatForeverWraps(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer()
	p.Play(walk.Weak()).Repeat()

	for i := 0; i < 5; i++ {
		p.Advance(0.3, clips)
	}
	if !approx(p.SeekTime(), 0.5) {
		t.Errorf("seek = %v, want 0.5", p.SeekTime())
	}
	if !approx(p.Elapsed(), 1.5) {
		t.Errorf("elapsed = %v, want 1.5", p.Elapsed())
	}
	if p.IsFinished() {
		t.Error("looping animation reported finished")
	}
	if p.CompletedCycles() != 1 {
		t.Errorf("completions = %d, want 1", p.CompletedCycles())
	}
}

func TestPlayerPlayOnceFinishes(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer().Play(walk)

	p.Advance(0.6, clips)
	p.Advance(0.6, clips)
	if !p.IsFinished() {
		t.Fatal("single-shot animation should finish after passing its end")
	}
	seek := p.SeekTime()
	p.Advance(0.6, clips)
	if p.SeekTime() != seek {
		t.Error("finished animation must not advance")
	}
}

func TestPlayerRepeatCount(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer().Play(walk).SetRepeat(Count(3))

	for i := 0; i < 2; i++ {
		p.Advance(1.0, clips)
	}
	if p.IsFinished() {
		t.Fatal("finished after two of three cycles")
	}
	p.Advance(1.0, clips)
	if !p.IsFinished() {
		t.Error("expected finish after three cycles")
	}
}

func TestPlayerReplayResets(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer().Play(walk)
	p.Advance(2, clips)

	p.SetRepeat(Count(1)).Replay()
	if p.SeekTime() != 0 || p.Elapsed() != 0 || p.CompletedCycles() != 0 || p.IsFinished() {
		t.Errorf("replay left seek=%v elapsed=%v completions=%d",
			p.SeekTime(), p.Elapsed(), p.CompletedCycles())
	}
}

func TestPlayerNegativeSpeedWrapsBackwards(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer().Play(walk).Repeat().SetSpeed(-1)

	p.Advance(0.25, clips)
	if !approx(p.SeekTime(), 0.75) {
		t.Errorf("seek = %v, want 0.75", p.SeekTime())
	}
	if p.CompletedCycles() != 1 {
		t.Errorf("completions = %d, want 1", p.CompletedCycles())
	}
}

func TestPlayerPausedDoesNotAdvance(t *testing.T) {
	walk, _, clips := testClips()
	p := NewPlayer().Play(walk).Repeat()
	p.Pause()
	p.Advance(0.5, clips)
	if p.SeekTime() != 0 || p.Elapsed() != 0 {
		t.Error("paused player advanced")
	}
	p.Resume()
	p.Advance(0.5, clips)
	if !approx(p.SeekTime(), 0.5) {
		t.Errorf("seek = %v, want 0.5", p.SeekTime())
	}
}

func TestPlayerPlaySameClipKeepsProgress(t *testing.T) {
	walk, run, clips := testClips()
	p := NewPlayer().Play(walk).Repeat()
	p.Advance(0.4, clips)

	p.Play(walk.Weak())
	if !approx(p.SeekTime(), 0.4) {
		t.Error("replaying the current clip must not restart it")
	}

	p.Pause()
	p.Play(walk)
	if p.SeekTime() != 0 {
		t.Error("playing on a paused player restarts the clip")
	}

	p.Play(run)
	if !p.Clip().Same(run) {
		t.Error("expected switch to the new clip")
	}
}

func TestPlayerUnloadedClipDoesNotAdvance(t *testing.T) {
	_, _, clips := testClips()
	p := NewPlayer().Play(asset.NewHandle(99, "missing.glb#Animation0")).Repeat()
	p.Advance(1, clips)
	if p.SeekTime() != 0 {
		t.Error("unloaded clip advanced")
	}
}

func TestPlayerTransitionFadesOut(t *testing.T) {
	walk, run, clips := testClips()
	p := NewPlayer().Play(walk).Repeat()
	p.Advance(0.5, clips)

	p.PlayWithTransition(run, 250*time.Millisecond).Repeat()
	if !p.Clip().Same(run) || p.SeekTime() != 0 {
		t.Fatal("transition must start the new clip from zero")
	}
	trs := p.Transitions()
	if len(trs) != 1 || trs[0].CurrentWeight != 1 || !approx(trs[0].DeclinePerSec, 4) {
		t.Fatalf("unexpected transitions %+v", trs)
	}

	p.Advance(0.1, clips)
	if w := p.Transitions()[0].CurrentWeight; !approx(w, 0.6) {
		t.Errorf("weight = %v, want 0.6", w)
	}
	if s := p.Transitions()[0].Animation.seekTime; !approx(s, 0.6) {
		t.Errorf("fading clip seek = %v, want 0.6", s)
	}

	p.Advance(0.2, clips)
	if len(p.Transitions()) != 0 {
		t.Error("transition should be dropped once its weight reaches zero")
	}
}

func TestPlayerTransitionFadesWhilePaused(t *testing.T) {
	walk, run, clips := testClips()
	p := NewPlayer().Play(walk).Repeat()
	p.PlayWithTransition(run, 250*time.Millisecond)
	p.Pause()
	p.Advance(0.3, clips)
	if len(p.Transitions()) != 0 {
		t.Error("transitions keep fading while paused")
	}
	if p.SeekTime() != 0 {
		t.Error("paused player advanced")
	}
}

func TestPlayerStartClearsTransitions(t *testing.T) {
	walk, run, _ := testClips()
	p := NewPlayer().Play(walk)
	p.StartWithTransition(run, time.Second)
	p.Start(walk)
	if len(p.Transitions()) != 0 {
		t.Error("Start must drop transitions")
	}
}

func TestPlayerEvaluateBlendsTransition(t *testing.T) {
	walk, run, clips := testClips()
	p := NewPlayer().Play(walk).Repeat()
	p.Advance(0.5, clips) // walk at x=5

	p.PlayWithTransition(run, time.Second).Repeat()
	p.Advance(0.5, clips) // run at y=5, walk fading at weight 0.5 and x=10 wrapped to 0

	pose := NewPose(1)
	p.Evaluate(pose, clips)
	got := pose.Translations[0]
	// run sample (0,5,0) blended halfway toward walk sample (0,0,0)
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 2.5, 0}, epsilon) {
		t.Errorf("pose = %v, want (0,2.5,0)", got)
	}
}
