// Package mpv implements the embedded player SDK on top of an mpv
// process driven through its JSON-IPC socket.
package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

type ipcCommand struct {
	Command []any `json:"command"`
}

type ipcResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
	Event string `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

// ErrPropertyUnavailable is returned while nothing is loaded.
var ErrPropertyUnavailable = errors.New("mpv: property unavailable")

// send runs one command with retries on transient connection errors.
func send(socketPath string, command ...any) (any, error) {
	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}
		data, err := sendOnce(socketPath, command)
		if err == nil {
			return data, nil
		}
		// A reply from mpv is final; only connection errors are retried.
		if errors.Is(err, ErrPropertyUnavailable) || errors.HasType(err, (*commandError)(nil)) {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "ipc command failed after %d attempts", maxRetries)
}

type commandError struct {
	msg string
}

func (e *commandError) Error() string { return "mpv error: " + e.msg }

func sendOnce(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, errors.Wrap(err, "set deadline")
	}

	// Broadcast events can precede the reply on any connection.
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			return nil, errors.Wrap(err, "unmarshal")
		}
		if resp.Event != "" {
			continue
		}
		switch resp.Error {
		case "", "success":
			return resp.Data, nil
		case "property unavailable":
			return nil, ErrPropertyUnavailable
		default:
			return nil, &commandError{msg: resp.Error}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return nil, errors.New("read: connection closed")
}

func floatProperty(socketPath, name string) (float64, error) {
	data, err := send(socketPath, "get_property", name)
	if err != nil {
		return 0, err
	}
	v, ok := data.(float64)
	if !ok {
		return 0, errors.Newf("property %s: expected float64, got %T", name, data)
	}
	return v, nil
}
