package embed

import (
	"context"
	"fmt"
	"sync"
)

// MockSDK is a test double for SDK. It records created players.
type MockSDK struct {
	mu      sync.Mutex
	players []*MockPlayer
	err     error
}

// NewMockSDK creates an empty mock SDK.
func NewMockSDK() *MockSDK {
	return &MockSDK{}
}

// Loader returns a Loader resolving to the mock and counting calls.
func (s *MockSDK) Loader(calls *int) Loader {
	return func(context.Context) (SDK, error) {
		if calls != nil {
			*calls++
		}
		return s, nil
	}
}

func (s *MockSDK) NewPlayer(opts PlayerOptions) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p := &MockPlayer{opts: opts}
	s.players = append(s.players, p)
	return p, nil
}

// SetNewPlayerError makes subsequent NewPlayer calls fail.
func (s *MockSDK) SetNewPlayerError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Players returns the created players.
func (s *MockSDK) Players() []*MockPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*MockPlayer(nil), s.players...)
}

// Last returns the most recently created player, or nil.
func (s *MockSDK) Last() *MockPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.players) == 0 {
		return nil
	}
	return s.players[len(s.players)-1]
}

// MockPlayer is a test double for Player.
type MockPlayer struct {
	mu        sync.Mutex
	opts      PlayerOptions
	calls     []string
	current   float64
	duration  float64
	volumeErr error
	loadErr   error
	destroyed bool
}

func (p *MockPlayer) record(format string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
	return nil
}

func (p *MockPlayer) PlayVideo() error  { return p.record("play") }
func (p *MockPlayer) PauseVideo() error { return p.record("pause") }
func (p *MockPlayer) StopVideo() error  { return p.record("stop") }

func (p *MockPlayer) SeekTo(seconds float64, allowSeekAhead bool) error {
	return p.record("seek:%g:%t", seconds, allowSeekAhead)
}

func (p *MockPlayer) LoadVideoByID(id string) error {
	_ = p.record("load:%s", id)
	return p.loadError()
}

func (p *MockPlayer) CueVideoByID(id string) error {
	_ = p.record("cue:%s", id)
	return p.loadError()
}

func (p *MockPlayer) loadError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

func (p *MockPlayer) CurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *MockPlayer) Duration() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, nil
}

func (p *MockPlayer) SetVolume(percent int) error {
	_ = p.record("volume:%d", percent)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeErr
}

func (p *MockPlayer) Mute() error   { return p.record("mute") }
func (p *MockPlayer) UnMute() error { return p.record("unmute") }

func (p *MockPlayer) Destroy() error {
	p.mu.Lock()
	p.destroyed = true
	p.mu.Unlock()
	return p.record("destroy")
}

// Test helpers

// Options returns the options the player was created with.
func (p *MockPlayer) Options() PlayerOptions { return p.opts }

// Calls returns a copy of the recorded calls.
func (p *MockPlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// CallsWithPrefix returns recorded calls starting with prefix.
func (p *MockPlayer) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range p.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls.
func (p *MockPlayer) ResetCalls() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

// SetTimes sets the values returned by CurrentTime and Duration.
func (p *MockPlayer) SetTimes(current, duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.duration = duration
}

// SetVolumeError makes SetVolume fail.
func (p *MockPlayer) SetVolumeError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeErr = err
}

// SetLoadError makes LoadVideoByID and CueVideoByID fail.
func (p *MockPlayer) SetLoadError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadErr = err
}

// Destroyed reports whether Destroy was called.
func (p *MockPlayer) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}

// FireReady invokes the ready callback.
func (p *MockPlayer) FireReady() {
	if p.opts.Events.OnReady != nil {
		p.opts.Events.OnReady()
	}
}

// FireState invokes the state-change callback.
func (p *MockPlayer) FireState(s PlayerState) {
	if p.opts.Events.OnStateChange != nil {
		p.opts.Events.OnStateChange(s)
	}
}

// FireError invokes the error callback.
func (p *MockPlayer) FireError(code int) {
	if p.opts.Events.OnError != nil {
		p.opts.Events.OnError(code)
	}
}

var (
	_ SDK    = (*MockSDK)(nil)
	_ Player = (*MockPlayer)(nil)
)
