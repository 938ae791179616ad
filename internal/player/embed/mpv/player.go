package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/player/embed"
)

// WatchURL is the page mpv resolves a video id through.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Player is the single embed.Player of a Process.
type Player struct {
	socketPath string
	release    func(*Player)

	conn     net.Conn
	listener *listener
	stopOnce sync.Once
}

func newPlayer(socketPath string, opts embed.PlayerOptions, release func(*Player)) (*Player, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, errors.Wrap(err, "event connection")
	}
	p := &Player{
		socketPath: socketPath,
		release:    release,
		conn:       conn,
		listener:   newListener(opts.Events),
	}

	// observe_property is scoped to the connection that issues it.
	for id, name := range []string{"pause"} {
		payload, _ := json.Marshal(ipcCommand{Command: []any{"observe_property", id + 1, name}})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "observe %s", name)
		}
	}

	if opts.VideoID != "" {
		if err := p.load(opts.VideoID, !opts.Autoplay); err != nil {
			conn.Close()
			return nil, err
		}
	}

	go p.readLoop()
	return p, nil
}

func (p *Player) readLoop() {
	if p.listener.events.OnReady != nil {
		p.listener.events.OnReady()
	}
	sc := bufio.NewScanner(p.conn)
	for sc.Scan() {
		p.listener.handle(sc.Bytes())
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		zlog.Debug().Err(err).Msg("mpv: event loop stopped")
	}
	// mpv exited or dropped the socket while the player was mounted.
	p.listener.disconnected()
}

func (p *Player) load(id string, paused bool) error {
	if strings.HasPrefix(id, "-") || strings.ContainsAny(id, "\x00\n\r") {
		return errors.Newf("invalid video id %q", id)
	}
	if _, err := send(p.socketPath, "set_property", "pause", paused); err != nil {
		return errors.Wrap(err, "set pause")
	}
	_, err := send(p.socketPath, "loadfile", WatchURL(id), "replace")
	return errors.Wrap(err, "loadfile")
}

func (p *Player) set(name string, value any) error {
	_, err := send(p.socketPath, "set_property", name, value)
	return err
}

func (p *Player) PlayVideo() error  { return p.set("pause", false) }
func (p *Player) PauseVideo() error { return p.set("pause", true) }

func (p *Player) StopVideo() error {
	_, err := send(p.socketPath, "stop")
	return err
}

func (p *Player) SeekTo(seconds float64, _ bool) error {
	_, err := send(p.socketPath, "seek", seconds, "absolute")
	return err
}

func (p *Player) LoadVideoByID(id string) error { return p.load(id, false) }
func (p *Player) CueVideoByID(id string) error  { return p.load(id, true) }

func (p *Player) CurrentTime() (float64, error) {
	return floatProperty(p.socketPath, "time-pos")
}

func (p *Player) Duration() (float64, error) {
	return floatProperty(p.socketPath, "duration")
}

func (p *Player) SetVolume(percent int) error { return p.set("volume", percent) }
func (p *Player) Mute() error                 { return p.set("mute", true) }
func (p *Player) UnMute() error               { return p.set("mute", false) }

// Destroy stops playback and detaches the event loop. The mpv process
// keeps running for the next mount.
func (p *Player) Destroy() error {
	var err error
	p.stopOnce.Do(func() {
		p.listener.detach()
		_, err = send(p.socketPath, "stop")
		p.conn.Close()
		p.release(p)
	})
	return err
}

var _ embed.Player = (*Player)(nil)
