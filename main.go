// main.go - Main entry point for the ChipStream YM player

/*
 ▄████▄   ██░ ██  ██▓ ██▓███    ██████ ▄▄▄█████▓ ██▀███  ▓█████ ▄▄▄       ███▄ ▄███▓
▒██▀ ▀█  ▓██░ ██▒▓██▒▓██░  ██▒▒██    ▒ ▓  ██▒ ▓▒▓██ ▒ ██▒▓█   ▀▒████▄    ▓██▒▀█▀ ██▒
▒▓█    ▄ ▒██▀▀██░▒██▒▓██░ ██▓▒░ ▓██▄   ▒ ▓██░ ▒░▓██ ░▄█ ▒▒███  ▒██  ▀█▄  ▓██    ▓██░
▒▓▓▄ ▄██▒░▓█ ░██ ░██░▒██▄█▓▒ ▒  ▒   ██▒░ ▓██▓ ░ ▒██▀▀█▄  ▒▓█  ▄░██▄▄▄▄██ ▒██    ▒██
▒ ▓███▀ ░░▓█▒░██▓░██░▒██▒ ░  ░▒██████▒▒  ▒██▒ ░ ░██▓ ▒██▒░▒████▒▓█   ▓██▒▒██▒   ░██▒
░ ░▒ ▒  ░ ▒ ░░▒░▒░▓  ▒▓▒░ ░  ░▒ ▒▓▒ ▒ ░  ▒ ░░   ░ ▒▓ ░▒▓░░░ ▒░ ░▒▒   ▓▒█░░ ▒░   ░  ░
  ░  ▒    ▒ ░▒░ ░ ▒ ░░▒ ░     ░ ░▒  ░ ░    ░      ░▒ ░ ▒░ ░ ░  ░ ▒   ▒▒ ░░  ░      ░
░         ░  ░░ ░ ▒ ░░░       ░  ░  ░    ░        ░░   ░    ░    ░   ▒   ░      ░
░ ░       ░  ░  ░ ░                 ░              ░        ░  ░     ░  ░       ░
░

(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/ChipStream
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147mChipStream - YM2149 chiptune player\033[0m")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/intuitionamiga/ChipStream")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		wavPath   string
		wavDur    float64
		useSynth  bool
		useColor  bool
		quiet     bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&wavPath, "wav", "", "Render to WAV file instead of playing")
	flagSet.Float64Var(&wavDur, "dur", 0, "Maximum render duration in seconds (0 = full song)")
	flagSet.BoolVar(&useSynth, "synth", false, "Use the reinterpretive softsynth backend")
	flagSet.BoolVar(&useColor, "color", false, "Enable the colorization output filter")
	flagSet.BoolVar(&quiet, "quiet", false, "Suppress metadata output")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./chipstream [-wav out.wav] [-dur seconds] [-synth] [-color] filename.ym")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	backend := PSG_BACKEND_HARDWARE
	if useSynth {
		backend = PSG_BACKEND_SOFTSYNTH
	}

	player := NewPsgPlayer(backend, SAMPLE_RATE)
	if err := player.Load(filename); err != nil {
		fmt.Printf("Error loading YM file: %v\n", err)
		os.Exit(1)
	}
	player.SetColorFilter(useColor)

	meta := player.Metadata()
	if !quiet {
		if meta.Title != "" || meta.Author != "" {
			fmt.Printf("\nPlaying: %s - %s\n", meta.Title, meta.Author)
		} else {
			fmt.Printf("\nPlaying: %s\n", filename)
		}
		if meta.Comments != "" {
			fmt.Printf("Comment: %s\n", meta.Comments)
		}
		fmt.Printf("Format:  YM%d, %d frames @ %d Hz, clock %d Hz (%s)\n",
			meta.Version, meta.FrameCount, meta.FrameRate, meta.ClockHz, player.DurationText())
	}

	if wavPath != "" {
		seconds := wavDur
		if seconds <= 0 {
			seconds = player.DurationSeconds()
		}
		fmt.Printf("Rendering %.1fs to %s...\n", seconds, wavPath)
		if err := RenderWAV(player, wavPath, seconds); err != nil {
			fmt.Printf("Error rendering WAV: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Done.")
		return
	}

	output, err := NewAudioOutput(SAMPLE_RATE)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	output.SetupPlayer(player)

	output.Start()
	player.Play()

	host := NewTerminalHost(player)
	host.Start()
	if !quiet {
		fmt.Println("\nControls: [space] pause  [s] stop  [1/2/3] mute voice  [q] quit")
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-host.Quit():
			host.Stop()
			player.Stop()
			output.Close()
			fmt.Println()
			return
		case <-ticker.C:
			if player.State() == SeqStopped {
				host.Stop()
				output.Close()
				fmt.Println("\nPlayback finished.")
				return
			}
		}
	}
}
