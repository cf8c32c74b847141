package playback

import (
	"fmt"
	"time"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/playlist"
)

type fakeSink struct {
	source   string
	sources  []string
	plays    []func(error)
	pauses   int
	pos      time.Duration
	duration time.Duration
	known    bool
	volume   float64
}

func (s *fakeSink) SetSource(uri string) {
	s.source = uri
	s.sources = append(s.sources, uri)
	s.pos = 0
}

func (s *fakeSink) Play(done func(error)) { s.plays = append(s.plays, done) }
func (s *fakeSink) Pause()                { s.pauses++ }
func (s *fakeSink) CurrentTime() time.Duration {
	return s.pos
}
func (s *fakeSink) SetCurrentTime(pos time.Duration) { s.pos = pos }
func (s *fakeSink) Duration() (time.Duration, bool) {
	return s.duration, s.known
}
func (s *fakeSink) SetVolume(level float64) { s.volume = level }

// complete resolves the i-th play request.
func (s *fakeSink) complete(i int, err error) {
	s.plays[i](err)
}

type fakeDisplay struct {
	title, artist string
	playing       bool
	percent       float64
	elapsed       string
	total         string
	volume        float64
	autoplay      bool
	shuffle       bool
	rows          []api.PlaylistRow
	alerts        []string
}

func (d *fakeDisplay) ShowTrackInfo(title, artist string) { d.title, d.artist = title, artist }
func (d *fakeDisplay) ShowPlaying(playing bool)           { d.playing = playing }
func (d *fakeDisplay) ShowProgress(percent float64, elapsed string) {
	d.percent, d.elapsed = percent, elapsed
}
func (d *fakeDisplay) ShowDuration(total string)             { d.total = total }
func (d *fakeDisplay) ShowVolume(percent float64)            { d.volume = percent }
func (d *fakeDisplay) ShowAutoplay(active bool)              { d.autoplay = active }
func (d *fakeDisplay) ShowShuffle(active bool)               { d.shuffle = active }
func (d *fakeDisplay) RenderPlaylist(rows []api.PlaylistRow) { d.rows = rows }
func (d *fakeDisplay) Alert(message string)                  { d.alerts = append(d.alerts, message) }

func (d *fakeDisplay) activeRows() []int {
	var active []int
	for _, r := range d.rows {
		if r.Active {
			active = append(active, r.Index)
		}
	}
	return active
}

// queue defers dispatched work until run is called.
type queue struct {
	pending []func()
}

func (q *queue) Dispatch(fn func()) { q.pending = append(q.pending, fn) }

func (q *queue) run() {
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
	}
}

type fakeTimer struct {
	fn      func()
	stopped bool
	delay   time.Duration
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{fn: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that has not been stopped.
func (c *fakeClock) fire() {
	timers := c.timers
	c.timers = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

type counterSources struct{ n int }

func (s *counterSources) Register(path string) string {
	s.n++
	return fmt.Sprintf("src-%d", s.n)
}

type harness struct {
	c       *Controller
	sink    *fakeSink
	display *fakeDisplay
	queue   *queue
	clock   *fakeClock
}

func newHarness(config Config, tracks ...*api.Track) *harness {
	h := &harness{
		sink:    &fakeSink{},
		display: &fakeDisplay{},
		queue:   &queue{},
		clock:   &fakeClock{},
	}
	if config.Volume == 0 {
		config.Volume = 1
	}
	h.c = NewController(Deps{
		Sink:       h.sink,
		Display:    h.display,
		Dispatcher: h.queue,
		Sources:    &counterSources{},
		Clock:      h.clock,
		Intn:       func(n int) int { return n - 1 },
		Tracks:     tracks,
	}, config)
	return h
}

func seeded(config Config) *harness {
	return newHarness(config, playlist.Seed()...)
}

func audioFile(name string) api.FileEntry {
	return api.FileEntry{Name: name, Path: "/music/" + name, MIMEType: "audio/mpeg"}
}

// play starts the current track and confirms it.
func (h *harness) play() {
	h.c.Play()
	h.sink.complete(len(h.sink.plays)-1, nil)
	h.queue.run()
}
