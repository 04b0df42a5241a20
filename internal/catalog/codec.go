// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     catalog
// Description: Binary encoding of cached catalogs (CBOR + LZ4)
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/pierrec/lz4/v4"
)

// cacheVersion is bumped whenever Command changes shape
const cacheVersion = 1

var cacheMagic = []byte("ARC\x01")

const (
	compressionNone byte = 0
	compressionLZ4  byte = 1
)

// maxLZ4Ratio bounds how far an LZ4 block can expand
const maxLZ4Ratio = 255

// cacheEntry is the serialized form of a parsed catalog
type cacheEntry struct {
	Version     int       `cbor:"1,keyasint"`
	Fingerprint string    `cbor:"2,keyasint"`
	Commands    []Command `cbor:"3,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("catalog: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("catalog: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeEntry serializes entry as magic | compression | uvarint size | payload
func encodeEntry(entry cacheEntry) ([]byte, error) {
	payload, err := encMode.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}

	tag := compressionNone
	body := payload
	if compressed, ok := compressLZ4(payload); ok {
		tag = compressionLZ4
		body = compressed
	}

	var buf bytes.Buffer
	buf.Write(cacheMagic)
	buf.WriteByte(tag)
	var size [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(size[:], uint64(len(payload)))
	buf.Write(size[:n])
	buf.Write(body)
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (cacheEntry, error) {
	var entry cacheEntry

	if !bytes.HasPrefix(data, cacheMagic) {
		return entry, errors.New("not a catalog cache file")
	}
	data = data[len(cacheMagic):]
	if len(data) < 1 {
		return entry, errors.New("truncated cache header")
	}
	tag := data[0]
	data = data[1:]

	size, n := binary.Uvarint(data)
	if n <= 0 {
		return entry, errors.New("truncated cache header")
	}
	data = data[n:]
	if err := checkPayloadSize(size, len(data), tag); err != nil {
		return entry, err
	}

	var payload []byte
	switch tag {
	case compressionNone:
		if uint64(len(data)) != size {
			return entry, fmt.Errorf("cache payload is %d bytes, header says %d", len(data), size)
		}
		payload = data
	case compressionLZ4:
		out, err := decompressLZ4(data, int(size))
		if err != nil {
			return entry, err
		}
		payload = out
	default:
		return entry, fmt.Errorf("unsupported cache compression %d", tag)
	}

	if err := decMode.Unmarshal(payload, &entry); err != nil {
		return entry, fmt.Errorf("cbor decode: %w", err)
	}
	if entry.Version != cacheVersion {
		return entry, fmt.Errorf("cache version %d, want %d", entry.Version, cacheVersion)
	}
	return entry, nil
}

// checkPayloadSize rejects header sizes the body cannot hold before anything
// is allocated from them
func checkPayloadSize(size uint64, bodyLen int, tag byte) error {
	if size > math.MaxInt32 {
		return fmt.Errorf("cache header size %d out of range", size)
	}
	if tag == compressionLZ4 && size > uint64(bodyLen)*maxLZ4Ratio+16 {
		return fmt.Errorf("cache header size %d exceeds %d compressed bytes", size, bodyLen)
	}
	return nil
}

// compressLZ4 returns false when the data does not shrink
func compressLZ4(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, dst, nil)
	if err != nil || written == 0 || written >= len(data) {
		return nil, false
	}
	return dst[:written], true
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return dst, nil
}
