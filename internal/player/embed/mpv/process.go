package mpv

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/player/embed"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 150 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrPlayerExists is returned when a second player is created while one
// is still mounted; an mpv process plays one video at a time.
var ErrPlayerExists = errors.New("mpv: a player is already mounted")

// Options configure the mpv process.
type Options struct {
	Path      string   // mpv binary, defaults to "mpv"
	ExtraArgs []string // appended to the default arguments
}

// Process is a running mpv instance. It implements embed.SDK.
type Process struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}

	mu      sync.Mutex
	current *Player
}

// Loader returns an embed.Loader that starts mpv.
func Loader(opts Options) embed.Loader {
	return func(ctx context.Context) (embed.SDK, error) {
		return Start(ctx, opts)
	}
}

// Start launches mpv in idle mode and waits for its IPC socket.
func Start(ctx context.Context, opts Options) (*Process, error) {
	bin := opts.Path
	if bin == "" {
		bin = "mpv"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.Wrapf(err, "find %s", bin)
	}

	socketPath, err := newSocketPath()
	if err != nil {
		return nil, err
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		"--input-ipc-server=" + socketPath,
	}
	args = append(args, opts.ExtraArgs...)

	cmd := exec.Command(bin, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "start mpv")
	}

	p := &Process{socketPath: socketPath, cmd: cmd, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitForSocket(ctx); err != nil {
		select {
		case <-p.exited:
		default:
			zlog.Warn().Msg("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return nil, errors.Wrap(err, "mpv socket not ready")
	}
	zlog.Info().Str("socket", socketPath).Msg("mpv started")
	return p, nil
}

func newSocketPath() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate socket name")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("frvmusic-%x.sock", b)), nil
}

func (p *Process) waitForSocket(ctx context.Context) error {
	for range socketWaitRetries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}
		conn, err := net.Dial("unix", p.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return errors.Newf("socket %s not ready after %d attempts", p.socketPath, socketWaitRetries)
}

// NewPlayer mounts a player and loads opts.VideoID.
func (p *Process) NewPlayer(opts embed.PlayerOptions) (embed.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		return nil, ErrPlayerExists
	}
	pl, err := newPlayer(p.socketPath, opts, p.release)
	if err != nil {
		return nil, err
	}
	p.current = pl
	return pl, nil
}

func (p *Process) release(pl *Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == pl {
		p.current = nil
	}
}

// Exited is closed when the mpv process exits.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Close quits mpv, killing it if it does not exit in time.
func (p *Process) Close() error {
	_, _ = send(p.socketPath, "quit")
	select {
	case <-p.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(p.cmd)
	}
	_ = os.Remove(p.socketPath)
	return nil
}

var _ embed.SDK = (*Process)(nil)
