package video

import "time"

// Speeds is the playback speed ladder, slowest to fastest.
var Speeds = []float64{0.25, 0.5, 1, 1.5, 2, 3, 4, 8, 16}

const normalSpeedIndex = 2

// Player owns the playback position and speed for one source. It only
// tracks state; rendering is driven by the front-ends, which advance the
// position on a ticker while playing.
type Player struct {
	src      Source
	frame    int
	playing  bool
	speedIdx int
}

func NewPlayer(src Source) *Player {
	return &Player{src: src, speedIdx: normalSpeedIndex}
}

func (p *Player) Source() Source {
	return p.src
}

func (p *Player) Frame() int {
	return p.frame
}

func (p *Player) Time() time.Duration {
	return p.src.TimeAt(p.frame)
}

func (p *Player) Playing() bool {
	return p.playing
}

func (p *Player) Speed() float64 {
	return Speeds[p.speedIdx]
}

func (p *Player) Play() {
	p.playing = true
}

func (p *Player) Pause() {
	p.playing = false
}

func (p *Player) Toggle() {
	p.playing = !p.playing
}

// Seek moves to a frame index, clamped to the source range.
func (p *Player) Seek(frame int) {
	if frame < 0 {
		frame = 0
	}
	if last := p.src.FrameCount() - 1; frame > last {
		frame = last
	}
	p.frame = frame
}

// SeekTime moves to a time offset, clamped to [0, duration].
func (p *Player) SeekTime(t time.Duration) {
	p.Seek(p.src.FrameAt(t))
}

// SeekRelative moves by a signed offset from the current position.
func (p *Player) SeekRelative(delta time.Duration) {
	p.SeekTime(p.Time() + delta)
}

// SeekPercent jumps to tenths of the duration, so digit keys 0-9 land on
// 0%, 10%, ... 90%.
func (p *Player) SeekPercent(tenths int) {
	if tenths < 0 || tenths > 9 {
		return
	}
	p.SeekTime(p.src.Duration * time.Duration(tenths) / 10)
}

// StepFrame pauses playback and moves one frame in the given direction.
func (p *Player) StepFrame(direction int) {
	p.Pause()
	p.Seek(p.frame + direction)
}

// SpeedUp moves one step up the speed ladder. It reports whether the speed
// changed.
func (p *Player) SpeedUp() bool {
	if p.speedIdx+1 >= len(Speeds) {
		return false
	}
	p.speedIdx++
	return true
}

// SpeedDown moves one step down the speed ladder.
func (p *Player) SpeedDown() bool {
	if p.speedIdx == 0 {
		return false
	}
	p.speedIdx--
	return true
}

// Advance moves the position forward by elapsed wall time scaled by the
// playback speed. At the end of the video playback pauses; the return
// value reports whether the player is still playing.
func (p *Player) Advance(elapsed time.Duration) bool {
	if !p.playing {
		return false
	}
	scaled := time.Duration(float64(elapsed) * p.Speed())
	next := p.src.FrameAt(p.Time() + scaled)
	if next <= p.frame {
		next = p.frame + 1
	}
	last := p.src.FrameCount() - 1
	if next >= last {
		p.frame = last
		p.playing = false
		return false
	}
	p.frame = next
	return true
}
