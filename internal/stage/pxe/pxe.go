// Package pxe decodes and encodes PXE entity-placement streams.
//
// A PXE stream is a 3-byte magic tag, a version byte, a little-endian
// 32-bit record count, then fixed-layout placement records in spawn
// order. The current layout appends a layer byte to each record; the
// legacy layout does not.
package pxe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic     = "PXE"
	headerLen = 8
	recordLen = 12

	VersionLegacy  byte = 0x00
	VersionCurrent byte = 0x10

	// BaseID is the first identifier handed to file-provided entities.
	// Ids below it are reserved for built-ins that never appear in a
	// placement stream.
	BaseID uint16 = 170
)

// maxEntities caps the record count so BaseID+i never wraps uint16
// back into the reserved id range. It also bounds allocation when a
// hostile stream advertises an absurd count.
const maxEntities = 1<<16 - uint32(BaseID)

var supportedVersions = [...]byte{VersionLegacy, VersionCurrent}

var (
	ErrInvalidMagic       = errors.New("pxe: invalid magic")
	ErrUnsupportedVersion = errors.New("pxe: unsupported version")
	ErrTruncated          = errors.New("pxe: truncated entity data")
	ErrTooManyEntities    = errors.New("pxe: entity count exceeds id space")
)

// Entity is one decoded placement record. FlagNum, EventNum, Type and
// Flags reference external flag/event/behavior systems and pass
// through unmodified.
type Entity struct {
	ID       uint16 `json:"id"`
	X        int16  `json:"x"`
	Y        int16  `json:"y"`
	FlagNum  uint16 `json:"flag_num"`
	EventNum uint16 `json:"event_num"`
	Type     uint16 `json:"type"`
	Flags    uint16 `json:"flags"`
	Layer    uint8  `json:"layer"`
}

// Decode reads every placement record from r, in file order. Order is
// meaningful downstream (spawn precedence) and is preserved exactly.
// Ids are BaseID plus the record's position in the stream. A short
// read at any field fails the whole decode; no partial slice is ever
// returned.
func Decode(r io.Reader) ([]Entity, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readErr("header", err)
	}
	if string(header[0:3]) != magic {
		return nil, ErrInvalidMagic
	}
	version := header[3]
	if !versionSupported(version) {
		return nil, fmt.Errorf("%w: %#x", ErrUnsupportedVersion, version)
	}

	count := binary.LittleEndian.Uint32(header[4:8])
	if count > maxEntities {
		return nil, fmt.Errorf("%w: %d", ErrTooManyEntities, count)
	}

	size := recordLen
	if version == VersionCurrent {
		size++
	}

	buf := make([]byte, size)
	ents := make([]Entity, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, readErr(fmt.Sprintf("record %d", i), err)
		}
		e := Entity{
			ID:       BaseID + uint16(i),
			X:        int16(binary.LittleEndian.Uint16(buf[0:2])),
			Y:        int16(binary.LittleEndian.Uint16(buf[2:4])),
			FlagNum:  binary.LittleEndian.Uint16(buf[4:6]),
			EventNum: binary.LittleEndian.Uint16(buf[6:8]),
			Type:     binary.LittleEndian.Uint16(buf[8:10]),
			Flags:    binary.LittleEndian.Uint16(buf[10:12]),
		}
		if version == VersionCurrent {
			e.Layer = buf[12]
		}
		ents = append(ents, e)
	}

	return ents, nil
}

// Encode writes ents to w in the requested layout version. Layer bytes
// are only emitted for the current version; encoding a record with a
// nonzero Layer as legacy loses it.
func Encode(w io.Writer, version byte, ents []Entity) error {
	if !versionSupported(version) {
		return fmt.Errorf("%w: %#x", ErrUnsupportedVersion, version)
	}
	if uint32(len(ents)) > maxEntities {
		return fmt.Errorf("%w: %d", ErrTooManyEntities, len(ents))
	}

	header := make([]byte, headerLen)
	copy(header[0:3], magic)
	header[3] = version
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(ents)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("pxe: write header: %w", err)
	}

	size := recordLen
	if version == VersionCurrent {
		size++
	}

	buf := make([]byte, size)
	for i, e := range ents {
		binary.LittleEndian.PutUint16(buf[0:2], uint16(e.X))
		binary.LittleEndian.PutUint16(buf[2:4], uint16(e.Y))
		binary.LittleEndian.PutUint16(buf[4:6], e.FlagNum)
		binary.LittleEndian.PutUint16(buf[6:8], e.EventNum)
		binary.LittleEndian.PutUint16(buf[8:10], e.Type)
		binary.LittleEndian.PutUint16(buf[10:12], e.Flags)
		if version == VersionCurrent {
			buf[12] = e.Layer
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("pxe: write record %d: %w", i, err)
		}
	}
	return nil
}

func versionSupported(v byte) bool {
	for _, s := range supportedVersions {
		if v == s {
			return true
		}
	}
	return false
}

func readErr(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w (%s)", ErrTruncated, field)
	}
	return fmt.Errorf("pxe: read %s: %w", field, err)
}
