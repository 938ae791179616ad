package player

import (
	"fmt"
	"sync"
)

// Mock is a test double for Backend. It records every call it receives.
type Mock struct {
	mu       sync.Mutex
	kind     Kind
	reporter Reporter
	calls    []string
	target   Target
	active   bool
	playing  bool
	closed   bool
}

// NewMock creates a mock backend of the given kind.
func NewMock(kind Kind) *Mock {
	return &Mock{kind: kind}
}

func (m *Mock) Kind() Kind { return m.kind }

func (m *Mock) Bind(r Reporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporter = r
}

func (m *Mock) Activate(target Target, playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("activate:%s:%t", target.Source, playing)
	m.target = target
	m.active = true
	m.playing = playing
}

func (m *Mock) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("deactivate")
	m.active = false
	m.playing = false
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("play")
	m.playing = true
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("pause")
	m.playing = false
}

func (m *Mock) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("seek:%g", seconds)
}

func (m *Mock) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("volume:%g", v)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("close")
	m.closed = true
	return nil
}

func (m *Mock) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

// Test helpers

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ResetCalls forgets recorded calls.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Target returns the last activated target.
func (m *Mock) Target() Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// IsActive reports whether the mock is between Activate and Deactivate.
func (m *Mock) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// IsPlaying reports the last requested transport.
func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Reporter returns the bound reporter.
func (m *Mock) Reporter() Reporter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reporter
}

// SimulateEnded reports the end of the current target.
func (m *Mock) SimulateEnded() {
	r, t := m.Reporter(), m.Target()
	r.ReportEnded(m.kind, t.Epoch)
}

// SimulateProgress reports a progress value for the current target.
func (m *Mock) SimulateProgress(seconds float64) {
	r, t := m.Reporter(), m.Target()
	r.ReportProgress(m.kind, t.Epoch, seconds)
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)

// Report is one call received by a RecordingReporter.
type Report struct {
	Event   string // progress, duration, ended, playing, error
	Kind    Kind
	Epoch   uint64
	Seconds float64
	Playing bool
	Err     error
}

// RecordingReporter is a Reporter that records every report.
type RecordingReporter struct {
	mu      sync.Mutex
	reports []Report
}

func (r *RecordingReporter) add(rep Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *RecordingReporter) ReportProgress(kind Kind, epoch uint64, seconds float64) {
	r.add(Report{Event: "progress", Kind: kind, Epoch: epoch, Seconds: seconds})
}

func (r *RecordingReporter) ReportDuration(kind Kind, epoch uint64, seconds float64) {
	r.add(Report{Event: "duration", Kind: kind, Epoch: epoch, Seconds: seconds})
}

func (r *RecordingReporter) ReportEnded(kind Kind, epoch uint64) {
	r.add(Report{Event: "ended", Kind: kind, Epoch: epoch})
}

func (r *RecordingReporter) ReportPlaying(kind Kind, epoch uint64, playing bool) {
	r.add(Report{Event: "playing", Kind: kind, Epoch: epoch, Playing: playing})
}

func (r *RecordingReporter) ReportError(kind Kind, epoch uint64, err error) {
	r.add(Report{Event: "error", Kind: kind, Epoch: epoch, Err: err})
}

// Reports returns a copy of the recorded reports.
func (r *RecordingReporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.reports...)
}

// Events returns the event names of the recorded reports, in order.
func (r *RecordingReporter) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.reports))
	for i, rep := range r.reports {
		out[i] = rep.Event
	}
	return out
}

// Last returns the last report with the given event name.
func (r *RecordingReporter) Last(event string) (Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].Event == event {
			return r.reports[i], true
		}
	}
	return Report{}, false
}

var _ Reporter = (*RecordingReporter)(nil)
