package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 500 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents returns a command that waits for the next playback
// event and converts it to a tea.Msg. Handlers re-arm it.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.QueueChanged:
			return QueueChangedMsg(e)
		case <-sub.ProgressChanged:
			return ProgressMsg{}
		case <-sub.DurationChanged:
			return ProgressMsg{}
		case e := <-sub.BackendChanged:
			return BackendChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchEmbedLoad reports the video player bootstrap result once.
func (m Model) WatchEmbedLoad() tea.Cmd {
	if m.embed == nil {
		return nil
	}
	embed := m.embed
	return waitForChannel(embed.Done(), func(struct{}, bool) tea.Msg {
		return EmbedLoadedMsg{Err: embed.Err()}
	})
}
