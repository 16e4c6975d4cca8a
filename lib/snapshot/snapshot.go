// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/compose"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/digest"
)

// FormatVersion is the only snapshot layout this package writes and
// reads.
const FormatVersion uint8 = 1

// MaxPayloadSize bounds the uncompressed payload a reader will
// allocate.
const MaxPayloadSize = 256 << 20

const headerSize = 4 + 1 + 1 + 32 + 8 + 8

var magic = [4]byte{'T', 'R', 'S', 'N'}

var (
	// ErrNotSnapshot is returned when the input does not start with
	// the snapshot magic.
	ErrNotSnapshot = errors.New("not a trait snapshot")

	// ErrFingerprintMismatch is returned when the decompressed payload
	// does not hash to the header's fingerprint.
	ErrFingerprintMismatch = errors.New("snapshot fingerprint mismatch")
)

// Header describes a stored snapshot.
type Header struct {
	Version     uint8       `json:"version"`
	Compression Compression `json:"compression"`
	Fingerprint digest.Hash `json:"fingerprint"`
	Size        uint64      `json:"size"`
	StoredSize  uint64      `json:"storedSize"`
}

// Write encodes object and writes a snapshot to w. The returned
// header reports the compression actually used, which is
// CompressionNone when the requested algorithm would not shrink the
// payload.
func Write(w io.Writer, object *compose.Object, compression Compression) (Header, error) {
	payload, err := compose.Encode(object)
	if err != nil {
		return Header{}, err
	}

	stored, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		stored, compression = payload, CompressionNone
	} else if err != nil {
		return Header{}, err
	}

	header := Header{
		Version:     FormatVersion,
		Compression: compression,
		Fingerprint: compose.FingerprintEncoded(payload),
		Size:        uint64(len(payload)),
		StoredSize:  uint64(len(stored)),
	}

	var buffer bytes.Buffer
	buffer.Grow(headerSize + len(stored))
	buffer.Write(magic[:])
	buffer.WriteByte(header.Version)
	buffer.WriteByte(uint8(header.Compression))
	buffer.Write(header.Fingerprint[:])
	binary.Write(&buffer, binary.BigEndian, header.Size)
	binary.Write(&buffer, binary.BigEndian, header.StoredSize)
	buffer.Write(stored)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return Header{}, fmt.Errorf("writing snapshot: %w", err)
	}
	return header, nil
}

// ReadHeader reads and checks the fixed header.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: truncated header", ErrNotSnapshot)
		}
		return Header{}, fmt.Errorf("reading snapshot header: %w", err)
	}
	if !bytes.Equal(raw[:4], magic[:]) {
		return Header{}, ErrNotSnapshot
	}

	var header Header
	header.Version = raw[4]
	header.Compression = Compression(raw[5])
	copy(header.Fingerprint[:], raw[6:38])
	header.Size = binary.BigEndian.Uint64(raw[38:46])
	header.StoredSize = binary.BigEndian.Uint64(raw[46:54])

	if header.Version != FormatVersion {
		return Header{}, fmt.Errorf("unsupported snapshot format version %d", header.Version)
	}
	if header.Size > MaxPayloadSize || header.StoredSize > MaxPayloadSize {
		return Header{}, fmt.Errorf("snapshot payload of %d bytes exceeds the %d byte limit", header.Size, MaxPayloadSize)
	}
	return header, nil
}

// Read reads a snapshot from r, verifies its fingerprint and decodes
// the composed object.
func Read(r io.Reader) (*compose.Object, Header, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	stored := make([]byte, header.StoredSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, header, fmt.Errorf("reading snapshot payload: %w", err)
	}
	payload, err := decompress(stored, header.Compression, int(header.Size))
	if err != nil {
		return nil, header, err
	}
	if compose.FingerprintEncoded(payload) != header.Fingerprint {
		return nil, header, ErrFingerprintMismatch
	}

	object, err := compose.Decode(payload)
	if err != nil {
		return nil, header, err
	}
	return object, header, nil
}

// WriteFile writes a snapshot to path through a temporary file in the
// same directory, so readers never observe a partial snapshot.
func WriteFile(path string, object *compose.Object, compression Compression) (Header, error) {
	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return Header{}, fmt.Errorf("creating snapshot file: %w", err)
	}
	defer os.Remove(temporary.Name())

	header, err := Write(temporary, object, compression)
	if err != nil {
		temporary.Close()
		return Header{}, err
	}
	if err := temporary.Close(); err != nil {
		return Header{}, fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return Header{}, fmt.Errorf("installing snapshot %s: %w", path, err)
	}
	return header, nil
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (*compose.Object, Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()
	return Read(file)
}
