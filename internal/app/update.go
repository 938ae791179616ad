package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/state"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.relayout()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case TickMsg:
		return m, TickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.FocusMsg:
		m.placement.PointerEnter()
		return m, nil

	case tea.BlurMsg:
		m.proximity.Leave()
		return m, nil

	case StateChangedMsg:
		return m, m.WatchServiceEvents()

	case ProgressMsg:
		return m, m.WatchServiceEvents()

	case TrackChangedMsg:
		m.tracks.SetPlaying(msg.CurrentID)
		m.saveQueue()
		return m, m.WatchServiceEvents()

	case QueueChangedMsg:
		m.saveQueue()
		return m, m.WatchServiceEvents()

	case BackendChangedMsg:
		m.placement.SetEmbeddedActive(msg.Kind == player.KindEmbedded)
		if msg.Unplayable {
			m.errorMsg = "No playable source for " + m.trackTitle(msg.TrackID)
		} else {
			m.errorMsg = ""
		}
		return m, m.WatchServiceEvents()

	case PlaybackErrorMsg:
		m.errorMsg = errmsg.FormatWith(msg.Op, m.trackTitle(msg.TrackID), msg.Err)
		return m, m.WatchServiceEvents()

	case EmbedLoadedMsg:
		m.embedErr = msg.Err
		if msg.Err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpEmbedLoad, msg.Err)
		}
		return m, nil

	case ServiceClosedMsg:
		m.sub = nil
		return m, nil
	}
	return m, nil
}

// saveQueue persists the queue and position.
func (m *Model) saveQueue() {
	snap := m.coord.Status().Snapshot
	err := m.state.SaveQueue(state.QueueState{CurrentIndex: snap.Index, TrackIDs: snap.Queue})
	if err != nil {
		zlog.Warn().Err(err).Msg("saving queue")
		m.errorMsg = errmsg.Format(errmsg.OpQueueSave, err)
	}
}

func (m Model) trackTitle(id string) string {
	if t, ok := m.catalog.Track(id); ok && t.Title != "" {
		return t.Title
	}
	return id
}
