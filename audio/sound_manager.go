package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/dotfield/world"
)

const (
	sampleRate = beep.SampleRate(44100)

	bounceFreq    = 440.0
	collisionFreq = 880.0
	clickDuration = 25 * time.Millisecond
	minClickGap   = 40 * time.Millisecond
	maxLiveClicks = 8
)

// SoundManager plays short clicks for wall bounces and particle collisions
// Every method is safe to call before Initialize or after Cleanup; it then does nothing
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	now      func() time.Time
	lastPlay time.Time
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything still playing
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// Note: beep doesn't provide a Close() method for speaker,
	// but clearing all streamers ensures no audio artifacts
	sm.initialized = false
}

// Observe turns tick stats into at most one click, collisions taking precedence
func (sm *SoundManager) Observe(stats world.TickStats) {
	switch {
	case stats.Collisions > 0:
		sm.PlayCollision()
	case stats.WallHits > 0:
		sm.PlayBounce()
	}
}

// PlayBounce plays the low wall click
func (sm *SoundManager) PlayBounce() {
	sm.play(bounceFreq)
}

// PlayCollision plays the high collision click
func (sm *SoundManager) PlayCollision() {
	sm.play(collisionFreq)
}

func (sm *SoundManager) play(freq float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.shouldPlay() {
		return
	}

	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	click := beep.Take(sampleRate.N(clickDuration), sine)

	speaker.Lock()
	if sm.mixer.Len() < maxLiveClicks {
		sm.mixer.Add(click)
	}
	speaker.Unlock()
}

// shouldPlay rate-limits clicks; a dense simulation would otherwise saturate the mixer
// Caller holds sm.mu
func (sm *SoundManager) shouldPlay() bool {
	now := sm.now()
	if !sm.lastPlay.IsZero() && now.Sub(sm.lastPlay) < minClickGap {
		return false
	}
	sm.lastPlay = now
	return true
}
