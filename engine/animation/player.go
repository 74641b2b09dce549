// Package animation implements keyframe clips and the per-entity player that drives them.
package animation

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
)

// ClipLookup resolves a clip handle to its loaded clip.
type ClipLookup func(h asset.Handle) (*Clip, bool)

// PlayingAnimation is the playback state of one clip.
type PlayingAnimation struct {
	repeat      RepeatAnimation
	speed       float32
	elapsed     float32
	seekTime    float32
	clip        asset.Handle
	completions uint32
}

func newPlayingAnimation(clip asset.Handle) PlayingAnimation {
	return PlayingAnimation{speed: 1, clip: clip}
}

// IsFinished reports whether the repeat policy has been exhausted.
func (a *PlayingAnimation) IsFinished() bool {
	return a.repeat.finished(a.completions)
}

// update advances the animation by delta seconds of wall time for a clip of the given duration.
func (a *PlayingAnimation) update(delta, duration float32) {
	if a.IsFinished() {
		return
	}

	a.elapsed += delta
	a.seekTime += delta * a.speed

	over := a.speed > 0 && a.seekTime >= duration
	under := a.speed < 0 && a.seekTime < 0
	if over || under {
		a.completions++
		if a.IsFinished() {
			return
		}
	}

	if duration <= 0 {
		a.seekTime = 0
		return
	}
	if a.seekTime >= duration {
		a.seekTime = float32(math.Mod(float64(a.seekTime), float64(duration)))
	}
	if a.seekTime < 0 {
		a.seekTime += duration
	}
}

func (a *PlayingAnimation) replay() {
	a.completions = 0
	a.elapsed = 0
	a.seekTime = 0
}

// Transition is a previous animation fading out underneath the current one.
type Transition struct {
	CurrentWeight float32
	DeclinePerSec float32
	Animation     PlayingAnimation
}

// Player is the animation player component. It plays one clip at a time and
// crossfades out of previous clips started with a transition.
//
// Mutators return the player so calls can be chained:
//
//	player.Play(h).Repeat()
type Player struct {
	paused      bool
	animation   PlayingAnimation
	transitions []Transition
}

// NewPlayer creates an idle player.
func NewPlayer() *Player {
	return &Player{animation: newPlayingAnimation(asset.Handle{})}
}

// Start plays h from the beginning, dropping any fading transitions.
func (p *Player) Start(h asset.Handle) *Player {
	p.animation = newPlayingAnimation(h)
	p.transitions = p.transitions[:0]
	return p
}

// Play starts h unless it is already the current clip of an unpaused player.
func (p *Player) Play(h asset.Handle) *Player {
	if !p.animation.clip.Same(h) || p.paused {
		p.Start(h)
	}
	return p
}

// StartWithTransition plays h from the beginning while the current animation fades out over d.
func (p *Player) StartWithTransition(h asset.Handle, d time.Duration) *Player {
	old := p.animation
	p.animation = newPlayingAnimation(h)
	decline := float32(1)
	if secs := float32(d.Seconds()); secs > 0 {
		decline = 1 / secs
	}
	p.transitions = append(p.transitions, Transition{
		CurrentWeight: 1,
		DeclinePerSec: decline,
		Animation:     old,
	})
	return p
}

// PlayWithTransition is the crossfading variant of Play.
func (p *Player) PlayWithTransition(h asset.Handle, d time.Duration) *Player {
	if !p.animation.clip.Same(h) || p.paused {
		p.StartWithTransition(h, d)
	}
	return p
}

// Repeat loops the current animation forever.
func (p *Player) Repeat() *Player {
	p.animation.repeat = Forever()
	return p
}

// SetRepeat sets the repeat policy of the current animation without restarting it.
func (p *Player) SetRepeat(r RepeatAnimation) *Player {
	p.animation.repeat = r
	return p
}

// RepeatMode returns the repeat policy of the current animation.
func (p *Player) RepeatMode() RepeatAnimation {
	return p.animation.repeat
}

// Replay rewinds the current animation and clears its completion count.
func (p *Player) Replay() *Player {
	p.animation.replay()
	return p
}

// Pause stops time from advancing for the current animation.
func (p *Player) Pause() {
	p.paused = true
}

// Resume undoes Pause.
func (p *Player) Resume() {
	p.paused = false
}

// IsPaused reports whether the player is paused.
func (p *Player) IsPaused() bool {
	return p.paused
}

// Speed returns the playback speed multiplier.
func (p *Player) Speed() float32 {
	return p.animation.speed
}

// SetSpeed sets the playback speed multiplier. Negative speeds play backwards.
func (p *Player) SetSpeed(s float32) *Player {
	p.animation.speed = s
	return p
}

// SeekTime returns the position within the clip in seconds.
func (p *Player) SeekTime() float32 {
	return p.animation.seekTime
}

// SeekTo moves the playhead. Values outside the clip are accepted and wrap on the next advance.
func (p *Player) SeekTo(t float32) *Player {
	p.animation.seekTime = t
	return p
}

// Elapsed returns the wall time the current animation has been advancing, in seconds.
func (p *Player) Elapsed() float32 {
	return p.animation.elapsed
}

// CompletedCycles returns how many times the current animation reached its end.
func (p *Player) CompletedCycles() uint32 {
	return p.animation.completions
}

// IsFinished reports whether the current animation exhausted its repeat policy.
func (p *Player) IsFinished() bool {
	return p.animation.IsFinished()
}

// Clip returns the handle of the current animation.
func (p *Player) Clip() asset.Handle {
	return p.animation.clip
}

// Transitions returns the animations currently fading out.
func (p *Player) Transitions() []Transition {
	return p.transitions
}

// Advance moves the player forward by dt seconds. Transition weights decline even while
// paused; animations whose clip is not loaded yet do not advance.
//
// Parameters:
//   - dt: frame delta in seconds
//   - clips: resolves clip handles
func (p *Player) Advance(dt float32, clips ClipLookup) {
	kept := p.transitions[:0]
	for _, tr := range p.transitions {
		tr.CurrentWeight -= tr.DeclinePerSec * dt
		if tr.CurrentWeight > 0 {
			kept = append(kept, tr)
		}
	}
	p.transitions = kept

	if p.paused {
		return
	}
	if clip, ok := clips(p.animation.clip); ok {
		p.animation.update(dt, clip.Duration())
	}
	for i := range p.transitions {
		a := &p.transitions[i].Animation
		if clip, ok := clips(a.clip); ok {
			a.update(dt, clip.Duration())
		}
	}
}

// Evaluate samples the current animation at full weight and then blends each fading
// transition on top with its current weight.
//
// Parameters:
//   - pose: the pose to write into, normally reset to the rest pose first
//   - clips: resolves clip handles
func (p *Player) Evaluate(pose *Pose, clips ClipLookup) {
	if clip, ok := clips(p.animation.clip); ok {
		clip.Sample(p.animation.seekTime, 1, pose)
	}
	for _, tr := range p.transitions {
		if clip, ok := clips(tr.Animation.clip); ok {
			clip.Sample(tr.Animation.seekTime, tr.CurrentWeight, pose)
		}
	}
}
