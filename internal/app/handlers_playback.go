package app

import (
	"github.com/cockroachdb/errors"

	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/keymap"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/ui/playerbar"
)

func (m *Model) handlePlaybackAction(a keymap.Action) {
	var err error
	var op errmsg.Op
	switch a { //nolint:exhaustive // playback actions only
	case keymap.ActionPlayPause:
		op, err = errmsg.OpPlaybackStart, m.coord.Toggle()
	case keymap.ActionStop:
		m.coord.Stop()
	case keymap.ActionNextTrack:
		op, err = errmsg.OpPlaybackNext, m.coord.Next()
	case keymap.ActionPrevTrack:
		op, err = errmsg.OpPlaybackPrev, m.coord.Previous()
	case keymap.ActionSeekForward:
		m.coord.SeekBy(m.seekStep)
	case keymap.ActionSeekBack:
		m.coord.SeekBy(-m.seekStep)
	case keymap.ActionVolumeUp:
		m.coord.SetVolume(m.coord.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		m.coord.SetVolume(m.coord.Volume() - volumeStep)
	case keymap.ActionMute:
		m.toggleMute()
	case keymap.ActionTogglePlayerDisplay:
		if m.displayMode == playerbar.ModeCompact {
			m.displayMode = playerbar.ModeExpanded
		} else {
			m.displayMode = playerbar.ModeCompact
		}
	case keymap.ActionCycleEmbedMode:
		m.placement.Cycle()
	}
	m.reportError(op, err)
}

// reportError shows err unless it only says the queue is empty.
func (m *Model) reportError(op errmsg.Op, err error) {
	switch {
	case err == nil:
	case errors.Is(err, playback.ErrEmptyQueue):
		m.errorMsg = "Queue is empty"
	default:
		m.errorMsg = errmsg.Format(op, err)
	}
}

// toggleMute remembers the volume it mutes from.
func (m *Model) toggleMute() {
	if v := m.coord.Volume(); v > 0 {
		m.lastVolume = v
		m.coord.SetVolume(0)
		return
	}
	m.coord.SetVolume(m.lastVolume)
}

// playSelected plays the track under the cursor. With withContext the
// listed tracks become the queue.
func (m *Model) playSelected(withContext bool) {
	t, ok := m.tracks.Selected()
	if !ok {
		return
	}
	var context []string
	if withContext {
		context = m.tracks.IDs()
	}
	m.reportError(errmsg.OpPlaybackStart, m.coord.PlayTrack(t.ID, context))
}
