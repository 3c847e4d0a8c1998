//go:build windows

// terminal_host_windows.go - Line-buffered keyboard controls for Windows consoles.

package main

import (
	"bufio"
	"os"
	"sync"
)

// TerminalHost on Windows reads line-buffered stdin. Keys need a
// trailing Enter, but the control set matches the unix build.
type TerminalHost struct {
	player  *PsgPlayer
	stopCh  chan struct{}
	done    chan struct{}
	quit    chan struct{}
	stopped sync.Once
}

func NewTerminalHost(player *PsgPlayer) *TerminalHost {
	return &TerminalHost{
		player: player,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		quit:   make(chan struct{}, 1),
	}
}

func (h *TerminalHost) Quit() <-chan struct{} {
	return h.quit
}

func (h *TerminalHost) Start() {
	go func() {
		defer close(h.done)
		reader := bufio.NewReader(os.Stdin)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}
			b, err := reader.ReadByte()
			if err != nil {
				return
			}
			h.handleKey(b)
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
	case 'q':
		select {
		case h.quit <- struct{}{}:
		default:
		}
	}
}

func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
}
