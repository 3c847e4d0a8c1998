// ym_parser.go - YM file parser (YM2!/YM3!/YM3b/YM5!/YM6!) for PSG register frames.

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

type YMFile struct {
	Version     int
	Frames      [][]uint8
	FrameRate   uint16
	ClockHz     uint32
	LoopFrame   uint32
	HasLoop     bool
	Title       string
	Author      string
	Comments    string
	Drums       [][]byte
	Interleaved bool
}

// YM5 song attribute bits.
const (
	ymAttrInterleaved = 0x01
	ymAttrDrum4Bits   = 0x04
)

func ParseYMFile(path string) (*YMFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ym, err := ParseYMData(data)
	if err == nil {
		return ym, nil
	}

	// Most .ym files in the wild are LHA archives around the raw stream.
	decompressed, decErr := DecompressLHAFile(path)
	if decErr != nil {
		return nil, err
	}
	return ParseYMData(decompressed)
}

func ParseYMData(data []byte) (*YMFile, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("ym too short")
	}

	switch string(data[:4]) {
	case "YM2!":
		return parseYMLegacy(data[4:], 2, false)
	case "YM3!":
		return parseYMLegacy(data[4:], 3, false)
	case "YM3b":
		return parseYMLegacy(data[4:], 3, true)
	case "YM5!", "YM6!":
		return parseYMExtended(data)
	default:
		return nil, fmt.Errorf("unsupported ym version: %q", string(data[:4]))
	}
}

// parseYMLegacy handles the headerless YM2/YM3 layouts: interleaved streams
// of 14 register bytes per frame at 50 Hz, Atari ST clock. YM3b appends a
// big-endian loop frame.
func parseYMLegacy(body []byte, version int, hasLoop bool) (*YMFile, error) {
	loopFrame := uint32(0)
	if hasLoop {
		if len(body) < 4 {
			return nil, fmt.Errorf("ym3b missing loop frame")
		}
		loopFrame = binary.BigEndian.Uint32(body[len(body)-4:])
		body = body[:len(body)-4]
	}

	frameCount := len(body) / PSG_REG_COUNT
	if frameCount == 0 {
		return nil, fmt.Errorf("ym frame data too short")
	}

	ym := &YMFile{
		Version:     version,
		FrameRate:   50,
		ClockHz:     PSG_CLOCK_ATARI_ST,
		LoopFrame:   loopFrame,
		HasLoop:     hasLoop && loopFrame > 0,
		Interleaved: true,
	}
	ym.Frames = deinterleaveFrames(body, frameCount, PSG_REG_COUNT, true)
	return ym, nil
}

func parseYMExtended(data []byte) (*YMFile, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("ym too short")
	}
	version := 5
	if string(data[:4]) == "YM6!" {
		version = 6
	}
	if string(data[4:12]) != "LeOnArD!" {
		return nil, fmt.Errorf("invalid ym signature")
	}

	off := 12
	readU32 := func() (uint32, error) {
		if off+4 > len(data) {
			return 0, io.ErrUnexpectedEOF
		}
		val := binary.BigEndian.Uint32(data[off : off+4])
		off += 4
		return val, nil
	}
	readU16 := func() (uint16, error) {
		if off+2 > len(data) {
			return 0, io.ErrUnexpectedEOF
		}
		val := binary.BigEndian.Uint16(data[off : off+2])
		off += 2
		return val, nil
	}

	nbFrames, err := readU32()
	if err != nil {
		return nil, err
	}
	songAttrs, err := readU32()
	if err != nil {
		return nil, err
	}
	numDrums, err := readU16()
	if err != nil {
		return nil, err
	}
	clock, err := readU32()
	if err != nil {
		return nil, err
	}
	frameRate, err := readU16()
	if err != nil {
		return nil, err
	}
	loopFrame, err := readU32()
	if err != nil {
		return nil, err
	}
	addData, err := readU16()
	if err != nil {
		return nil, err
	}
	if off+int(addData) > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	off += int(addData)

	drums := make([][]byte, 0, numDrums)
	for i := 0; i < int(numDrums); i++ {
		size, err := readU32()
		if err != nil {
			return nil, err
		}
		if off+int(size) > len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		sample := make([]byte, size)
		copy(sample, data[off:off+int(size)])
		if songAttrs&ymAttrDrum4Bits != 0 {
			for j, v := range sample {
				sample[j] = (v & 0x0F) << 4
			}
		}
		drums = append(drums, sample)
		off += int(size)
	}

	readString := func() string {
		start := off
		for off < len(data) && data[off] != 0 {
			off++
		}
		s := string(data[start:off])
		if off < len(data) {
			off++
		}
		return s
	}
	title := readString()
	author := readString()
	comments := readString()

	if psgDebugEnabled() {
		fmt.Printf("YM debug: v=%d frames=%d attrs=0x%X drums=%d clock=%d rate=%d loop=%d title=%q author=%q\n",
			version, nbFrames, songAttrs, numDrums, clock, frameRate, loopFrame, title, author)
	}

	interleaved := songAttrs&ymAttrInterleaved != 0
	frameCount := int(nbFrames)
	if frameCount <= 0 {
		return nil, fmt.Errorf("invalid frame count")
	}

	remaining := data[off:]
	frameRegCount := PSG_FRAME_SIZE
	if len(remaining) < frameCount*PSG_FRAME_SIZE {
		// Some rippers wrote only the 14 hardware registers per frame.
		if len(remaining) < frameCount*PSG_REG_COUNT {
			return nil, fmt.Errorf("ym frame data too short")
		}
		frameRegCount = PSG_REG_COUNT
	}

	ym := &YMFile{
		Version:     version,
		FrameRate:   frameRate,
		ClockHz:     clock,
		LoopFrame:   loopFrame,
		HasLoop:     loopFrame > 0 && loopFrame < nbFrames,
		Title:       title,
		Author:      author,
		Comments:    comments,
		Drums:       drums,
		Interleaved: interleaved,
	}
	ym.Frames = deinterleaveFrames(remaining, frameCount, frameRegCount, interleaved)
	return ym, nil
}

// deinterleaveFrames unpacks the register stream into per-frame slices of
// PSG_FRAME_SIZE bytes backed by one contiguous allocation.
func deinterleaveFrames(stream []byte, frameCount, regCount int, interleaved bool) [][]uint8 {
	buffer := make([]uint8, frameCount*PSG_FRAME_SIZE)
	frames := make([][]uint8, frameCount)
	for i := range frames {
		start := i * PSG_FRAME_SIZE
		frames[i] = buffer[start : start+PSG_FRAME_SIZE : start+PSG_FRAME_SIZE]
	}

	if interleaved {
		for reg := 0; reg < regCount; reg++ {
			base := reg * frameCount
			for frame := 0; frame < frameCount; frame++ {
				frames[frame][reg] = stream[base+frame]
			}
		}
	} else {
		for frame := 0; frame < frameCount; frame++ {
			copy(frames[frame], stream[frame*regCount:frame*regCount+regCount])
		}
	}
	return frames
}

func isYMExtension(path string) bool {
	switch strings.ToLower(pathExt(path)) {
	case ".ym", ".ym2", ".ym3", ".ym5", ".ym6":
		return true
	default:
		return false
	}
}

func pathExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

// psgDebugEnabled gates diagnostic dumps on the PSG_DEBUG env variable.
var psgDebugValue = func() bool {
	value := strings.ToLower(os.Getenv("PSG_DEBUG"))
	return value == "1" || value == "true" || value == "yes"
}()

func psgDebugEnabled() bool {
	return psgDebugValue
}
