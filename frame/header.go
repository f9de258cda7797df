package frame

import (
	"fmt"

	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

const (
	HeaderSize = 24     // HeaderSize is the fixed frame header size in bytes.
	Magic      = 0xC7E1 // Magic identifies a ctree frame.
	Version    = 1      // Version is the only frame version this package writes and reads.
)

// Header is the fixed-size section at the start of a frame.
type Header struct {
	Compression  format.CompressionType // byte offset 4
	Checksum     format.ChecksumType    // byte offset 5
	Flags        uint8                  // byte offset 3
	Version      uint8                  // byte offset 2
	RawLength    uint64                 // byte offset 8-15
	StoredLength uint64                 // byte offset 16-23
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header of %d bytes, want %d", errs.ErrInvalidFrame, len(data), HeaderSize)
	}

	engine := endian.GetLittleEndianEngine()
	if magic := engine.Uint16(data[0:2]); magic != Magic {
		return fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, magic)
	}

	h.Version = data[2]
	h.Flags = data[3]
	h.Compression = format.CompressionType(data[4])
	h.Checksum = format.ChecksumType(data[5])
	h.RawLength = engine.Uint64(data[8:16])
	h.StoredLength = engine.Uint64(data[16:24])

	if reserved := engine.Uint16(data[6:8]); reserved != 0 {
		return fmt.Errorf("%w: reserved header bytes set (0x%04x)", errs.ErrInvalidFrame, reserved)
	}

	return h.Validate()
}

// Validate checks the fields that do not depend on the payload.
func (h *Header) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if h.Flags != 0 {
		return fmt.Errorf("%w: unknown flags 0x%02x", errs.ErrInvalidFrame, h.Flags)
	}
	if h.Checksum.Size() < 0 {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedChecksum, uint8(h.Checksum))
	}
	if h.RawLength > format.MaxNodeSize || h.StoredLength > format.MaxNodeSize-uint64(h.Checksum.Size()) {
		return fmt.Errorf("%w: lengths %d/%d too large", errs.ErrInvalidFrame, h.RawLength, h.StoredLength)
	}
	if h.Compression == format.CompressionNone && h.RawLength != h.StoredLength {
		return fmt.Errorf("%w: uncompressed frame with raw length %d and stored length %d",
			errs.ErrInvalidFrame, h.RawLength, h.StoredLength)
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint16(b[0:2], Magic)
	b[2] = h.Version
	b[3] = h.Flags
	b[4] = uint8(h.Compression)
	b[5] = uint8(h.Checksum)
	engine.PutUint64(b[8:16], h.RawLength)
	engine.PutUint64(b[16:24], h.StoredLength)

	return b
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than a header", errs.ErrInvalidFrame, len(data))
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
