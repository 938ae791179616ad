// Package speaker implements local.Element on top of the beep speaker.
package speaker

import (
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/frvmusic/internal/player/local"
)

const (
	sampleRate     = beep.SampleRate(44100)
	updateInterval = 250 * time.Millisecond
)

var (
	// ErrUnsupportedFormat is returned by Play for sources other than
	// mp3, flac and ogg vorbis.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNoSource is returned by Play when no source is assigned.
	ErrNoSource = errors.New("no source assigned")

	initOnce sync.Once
	initErr  error
)

func initSpeaker() error {
	initOnce.Do(func() {
		initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	return initErr
}

// Element plays one file at a time through the shared speaker.
type Element struct {
	mu     sync.Mutex
	events local.Events

	source   string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	level   float64
	seekTo  float64 // applied when the source is loaded
	playing bool
	gen     uint64 // bumped on every unload
	stop    chan struct{}
}

// New creates an element. It matches local.Factory.
func New(ev local.Events) (local.Element, error) {
	return &Element{events: ev, level: 1}, nil
}

func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

func (e *Element) SetSource(src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
	e.source = src
	e.seekTo = 0
}

func (e *Element) ClearSource() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
	e.source = ""
	e.seekTo = 0
}

// SetCurrentTime seeks, or remembers the position until the source loads.
func (e *Element) SetCurrentTime(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		e.seekTo = seconds
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	n := e.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if last := e.streamer.Len() - 1; n > last {
		n = max(last, 0)
	}
	_ = e.streamer.Seek(n)
}

// Play decodes the source on first use and resumes output.
func (e *Element) Play() error {
	e.mu.Lock()
	loaded := e.streamer != nil
	if !loaded {
		if err := e.loadLocked(); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	if !e.playing {
		e.playing = true
		e.stop = make(chan struct{})
		go e.tick(e.gen, e.stop)
	}
	duration, gen := e.durationLocked(), e.gen
	e.mu.Unlock()

	if !loaded && e.events.LoadedMetadata != nil {
		e.events.LoadedMetadata(gen, duration)
	}
	return nil
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
	e.stopTickerLocked()
}

// SetVolume sets the level (0.0 to 1.0). Zero is silent.
func (e *Element) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = min(max(level, 0), 1)
	if e.volume != nil {
		speaker.Lock()
		e.volume.Volume = levelToVolume(e.level)
		e.volume.Silent = e.level <= 0
		speaker.Unlock()
	}
}

func (e *Element) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
	return nil
}

func (e *Element) loadLocked() error {
	if e.source == "" {
		return ErrNoSource
	}
	path := localPath(e.source)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".flac", ".ogg", ".oga":
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open audio file")
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = decodeVorbis(f)
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "decode %s", filepath.Base(path))
	}

	if err := initSpeaker(); err != nil {
		streamer.Close()
		f.Close()
		return errors.Wrap(err, "init speaker")
	}

	e.file = f
	e.streamer = streamer
	e.format = format

	if e.seekTo > 0 {
		n := format.SampleRate.N(time.Duration(e.seekTo * float64(time.Second)))
		_ = streamer.Seek(min(n, max(streamer.Len()-1, 0)))
	}

	var out beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		out = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	e.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.level),
		Silent:   e.level <= 0,
	}

	gen := e.gen
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		go e.finished(gen)
	})))
	return nil
}

func (e *Element) unloadLocked() {
	e.stopTickerLocked()
	e.gen++
	if e.streamer == nil {
		return
	}
	speaker.Clear()
	e.streamer.Close()
	e.streamer = nil
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.volume = nil
}

func (e *Element) stopTickerLocked() {
	if !e.playing {
		return
	}
	e.playing = false
	close(e.stop)
}

func (e *Element) durationLocked() float64 {
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len()).Seconds()
}

func (e *Element) position(gen uint64) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.streamer == nil {
		return 0, false
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos.Seconds(), true
}

func (e *Element) tick(gen uint64, stop <-chan struct{}) {
	t := time.NewTicker(updateInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if pos, ok := e.position(gen); ok && e.events.TimeUpdate != nil {
				e.events.TimeUpdate(gen, pos)
			}
		}
	}
}

func (e *Element) finished(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.stopTickerLocked()
	e.unloadLocked()
	e.mu.Unlock()

	if e.events.Ended != nil {
		e.events.Ended(gen)
	}
}

// localPath accepts plain paths and file:// urls.
func localPath(src string) string {
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return src
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// We map: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent)
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

var _ local.Element = (*Element)(nil)
