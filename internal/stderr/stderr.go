//go:build !windows

// Package stderr captures output that C libraries (ALSA, mpv's libc
// helpers) write straight to file descriptor 2, which would otherwise
// corrupt the terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into a pipe and calls handle for every non-blank
// line read from it. It must run before the audio device is opened.
// The program keeps working on error; output then goes to the terminal.
func Start(handle func(line string)) error {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}
	if err := dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr, pipeRead, pipeWrite = orig, r, w
	done = make(chan struct{})
	go forward(r, handle, done)
	return nil
}

func forward(r *os.File, handle func(string), done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			handle(line)
		}
	}
}

// WriteOriginal writes to the terminal's stderr, bypassing capture.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores fd 2 and waits for the captured lines to drain.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead == nil {
		return
	}

	_ = dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	pipeWrite.Close()
	<-done
	pipeRead.Close()

	origStderr, pipeRead, pipeWrite = -1, nil, nil
}
