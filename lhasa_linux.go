//go:build linux && !headless

// lhasa_linux.go - LHA decompression via system liblhasa, for compressed .ym files.

package main

/*
#cgo pkg-config: liblhasa
#include <stdlib.h>
#include <lhasa.h>

// Extracts the first archive member in full. YM archives hold exactly one
// file; a short read means a truncated archive and returns NULL rather than
// a partial buffer.
static unsigned char* lha_read_first(const char* path, size_t* out_len) {
	unsigned char* buffer = NULL;

	LHAInputStream* stream = lha_input_stream_from((char*)path);
	if (stream == NULL) {
		return NULL;
	}
	LHAReader* reader = lha_reader_new(stream);
	if (reader == NULL) {
		lha_input_stream_free(stream);
		return NULL;
	}

	LHAFileHeader* header = lha_reader_next_file(reader);
	if (header != NULL && header->length > 0) {
		size_t length = (size_t) header->length;
		buffer = (unsigned char*) malloc(length);
		if (buffer != NULL) {
			size_t total = 0;
			while (total < length) {
				size_t n = lha_reader_read(reader, buffer + total, length - total);
				if (n == 0) {
					break;
				}
				total += n;
			}
			if (total == length) {
				*out_len = length;
			} else {
				free(buffer);
				buffer = NULL;
			}
		}
	}

	lha_reader_free(reader);
	lha_input_stream_free(stream);
	return buffer;
}
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

func DecompressLHAFile(path string) ([]byte, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var outLen C.size_t
	out := C.lha_read_first(cPath, &outLen)
	if out == nil {
		return nil, fmt.Errorf("lha: no extractable member in %s", path)
	}
	defer C.free(unsafe.Pointer(out))

	return C.GoBytes(unsafe.Pointer(out), C.int(outLen)), nil
}

// DecompressLHAData decompresses in-memory LHA data via a temp file, since
// liblhasa only reads from paths.
func DecompressLHAData(data []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "lha-*.ym")
	if err != nil {
		return nil, fmt.Errorf("lha temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("lha temp write: %w", err)
	}
	tmp.Close()
	return DecompressLHAFile(tmpPath)
}
