// Package pxm decodes and encodes PXM tile-map streams and their
// companion PXA attribute streams.
//
// A PXM stream is a 3-byte magic tag, a version byte, little-endian
// 16-bit width and height, then width*height row-major tile index
// bytes. The attribute stream is a separate source of up to 256 raw
// bytes mapping each tile index to a collision attribute.
package pxm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	logs "github.com/danmuck/stagectl/internal/logging"
)

const (
	magic     = "PXM"
	headerLen = 8

	// AttribLen is the fixed size of the attribute table. Every tile
	// index byte resolves inside it.
	AttribLen = 256

	// CurrentVersion is the only PXM layout in circulation. Booster's
	// Lab advertises others but none have been seen in practice.
	CurrentVersion byte = 0x10
)

var supportedVersions = [...]byte{CurrentVersion}

var (
	ErrInvalidMagic       = errors.New("pxm: invalid magic")
	ErrUnsupportedVersion = errors.New("pxm: unsupported version")
	ErrTruncated          = errors.New("pxm: truncated map data")
)

// Map is a decoded tile map. Immutable after Decode; safe to share
// across goroutines read-only.
type Map struct {
	Width  int
	Height int
	Tiles  []byte
	Attrib [AttribLen]byte
}

// Decode reads a tile map from mapData and its attribute table from
// attribData. An attribute source shorter than 256 bytes is tolerated:
// the missing trailing entries stay zero and a warning is logged.
// Third-party map packs ship short or absent attribute files routinely,
// so that case must not fail the load. Truncated tile data, by
// contrast, always fails with ErrTruncated.
func Decode(mapData, attribData io.Reader) (*Map, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(mapData, header[:]); err != nil {
		return nil, readErr("header", err)
	}
	if string(header[0:3]) != magic {
		return nil, ErrInvalidMagic
	}
	version := header[3]
	if !versionSupported(version) {
		return nil, fmt.Errorf("%w: %#x", ErrUnsupportedVersion, version)
	}

	width := int(binary.LittleEndian.Uint16(header[4:6]))
	height := int(binary.LittleEndian.Uint16(header[6:8]))

	m := &Map{
		Width:  width,
		Height: height,
		Tiles:  make([]byte, width*height),
	}
	if _, err := io.ReadFull(mapData, m.Tiles); err != nil {
		return nil, readErr("tiles", err)
	}
	logs.Infof("pxm.Decode map size=%dx%d", width, height)

	if _, err := io.ReadFull(attribData, m.Attrib[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			logs.Warnf("pxm.Decode attribute data shorter than %d bytes", AttribLen)
		} else {
			return nil, fmt.Errorf("pxm: read attributes: %w", err)
		}
	}

	return m, nil
}

// Attribute reports the collision attribute of the tile at (x, y).
// Coordinates outside the map resolve to tile 0, so collision sweeps
// can probe past the edges without bounds checks.
func (m *Map) Attribute(x, y int) byte {
	var tile byte
	if x >= 0 && x < m.Width && y >= 0 && y < m.Height {
		tile = m.Tiles[m.Width*y+x]
	}
	return m.Attrib[tile]
}

// Encode writes the tile stream for m in the current layout.
func Encode(w io.Writer, m *Map) error {
	if m.Width < 0 || m.Width > 0xFFFF || m.Height < 0 || m.Height > 0xFFFF {
		return fmt.Errorf("pxm: dimensions %dx%d out of range", m.Width, m.Height)
	}
	if len(m.Tiles) != m.Width*m.Height {
		return fmt.Errorf("pxm: tile count %d does not match %dx%d", len(m.Tiles), m.Width, m.Height)
	}

	header := make([]byte, headerLen)
	copy(header[0:3], magic)
	header[3] = CurrentVersion
	binary.LittleEndian.PutUint16(header[4:6], uint16(m.Width))
	binary.LittleEndian.PutUint16(header[6:8], uint16(m.Height))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("pxm: write header: %w", err)
	}
	if _, err := w.Write(m.Tiles); err != nil {
		return fmt.Errorf("pxm: write tiles: %w", err)
	}
	return nil
}

// EncodeAttrib writes the full 256-byte attribute stream for m.
func EncodeAttrib(w io.Writer, m *Map) error {
	if _, err := w.Write(m.Attrib[:]); err != nil {
		return fmt.Errorf("pxm: write attributes: %w", err)
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
	return fmt.Errorf("pxm: read %s: %w", field, err)
}
