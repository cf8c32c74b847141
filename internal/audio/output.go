package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the rate the speaker is opened at. Streams at other
// rates are resampled.
const DefaultSampleRate beep.SampleRate = 44100

// Output is the device streams are mixed into.
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	// Lock and Unlock guard streamer state read by the mixer.
	Lock()
	Unlock()
}

// Speaker is the system audio output. It is opened on first use.
type Speaker struct {
	once sync.Once
	err  error
}

func (s *Speaker) Init(rate beep.SampleRate) error {
	s.once.Do(func() {
		s.err = speaker.Init(rate, rate.N(time.Second/10))
	})
	return s.err
}

func (s *Speaker) Play(st beep.Streamer) { speaker.Play(st) }
func (s *Speaker) Clear()                { speaker.Clear() }
func (s *Speaker) Lock()                 { speaker.Lock() }
func (s *Speaker) Unlock()               { speaker.Unlock() }
