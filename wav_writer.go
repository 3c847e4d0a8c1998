// wav_writer.go - Offline rendering of a loaded song to a 16-bit mono WAV file.

package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavRenderChunk = 4096

// RenderWAV plays the loaded song through the player and writes the output
// to path. seconds bounds the render; pass 0 to use the song duration.
func RenderWAV(p *PsgPlayer, path string, seconds float64) (rerr error) {
	if seconds <= 0 {
		seconds = p.DurationSeconds()
	}
	if seconds <= 0 {
		return fmt.Errorf("wav render: nothing to render")
	}
	total := int(seconds * float64(SAMPLE_RATE))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav render: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav render: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SAMPLE_RATE, 16, 1, 1)

	p.Play()

	samples := make([]float32, wavRenderChunk)
	ints := make([]int, wavRenderChunk)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SAMPLE_RATE},
		SourceBitDepth: 16,
	}

	for written := 0; written < total; {
		n := wavRenderChunk
		if total-written < n {
			n = total - written
		}
		p.GenerateSamplesInto(samples[:n])
		for i := 0; i < n; i++ {
			s := samples[i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			ints[i] = int(s * 32767)
		}
		buf.Data = ints[:n]
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav render: %w", err)
		}
		written += n

		if !p.IsPlaying() {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav render: %w", err)
	}
	return nil
}
