//go:build !linux && !headless

// lhasa_fallback.go - Stub for platforms without liblhasa.

package main

import "fmt"

func DecompressLHAFile(path string) ([]byte, error) {
	return nil, fmt.Errorf("lha decompression requires Linux with liblhasa installed")
}

func DecompressLHAData(data []byte) ([]byte, error) {
	return nil, fmt.Errorf("lha decompression requires Linux with liblhasa installed")
}
