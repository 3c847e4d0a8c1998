//go:build !windows

// terminal_host.go - Raw-mode keyboard transport controls for interactive playback.

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and maps keys onto player transport calls.
// Only instantiated in main.go for interactive use — never in tests.
type TerminalHost struct {
	player       *PsgPlayer
	stopCh       chan struct{}
	done         chan struct{}
	quit         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewTerminalHost(player *PsgPlayer) *TerminalHost {
	return &TerminalHost{
		player: player,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		quit:   make(chan struct{}, 1),
	}
}

// Quit is signalled when the user presses q or Ctrl-C.
func (h *TerminalHost) Quit() <-chan struct{} {
	return h.quit
}

// Start sets stdin to raw non-blocking mode and begins reading in a
// goroutine. Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.handleKey(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (h *TerminalHost) handleKey(b byte) {
	switch b {
	case ' ':
		if h.player.IsPlaying() {
			h.player.Pause()
		} else {
			h.player.Play()
		}
	case 's':
		h.player.Stop()
	case '1', '2', '3':
		voice := int(b - '1')
		h.player.SetChannelMute(voice, !h.player.IsChannelMuted(voice))
	case 'q', 0x03: // q or Ctrl-C
		select {
		case h.quit <- struct{}{}:
		default:
		}
	}
}

// Stop terminates the reading goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
