package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/compress"
	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
	"github.com/arloliu/ctree/internal/hash"
	"github.com/arloliu/ctree/tree"
)

// digest computes the checksum of raw with the given algorithm.
func digest(checksumType format.ChecksumType, raw []byte) []byte {
	switch checksumType {
	case format.ChecksumXXHash:
		return endian.GetLittleEndianEngine().AppendUint64(nil, hash.Sum64(raw))
	case format.ChecksumBLAKE3:
		sum := hash.Sum256(raw)
		return sum[:]
	default:
		return nil
	}
}

// Encode wraps the encoded tree raw in a frame.
func Encode(raw []byte, opts ...Option) ([]byte, error) {
	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}

	compressor, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	payload, err := compressor.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress frame payload: %w", err)
	}

	h := Header{
		Version:      Version,
		Compression:  cfg.compression,
		Checksum:     cfg.checksum,
		RawLength:    uint64(len(raw)),
		StoredLength: uint64(len(payload)),
	}
	sum := digest(cfg.checksum, raw)

	out := make([]byte, 0, HeaderSize+len(sum)+len(payload))
	out = append(out, h.Bytes()...)
	out = append(out, sum...)
	out = append(out, payload...)

	return out, nil
}

// Decode verifies a frame and returns the tree it holds.
//
// For uncompressed frames the returned slice aliases data.
func Decode(data []byte) ([]byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	sumSize := h.Checksum.Size()
	if uint64(len(body)) != uint64(sumSize)+h.StoredLength { //nolint:gosec
		return nil, fmt.Errorf("%w: body of %d bytes, header expects %d", errs.ErrInvalidFrame, len(body), uint64(sumSize)+h.StoredLength) //nolint:gosec
	}

	return decodeBody(h, body[:sumSize], body[sumSize:])
}

func decodeBody(h Header, sum, payload []byte) ([]byte, error) {
	compressor, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}
	raw, err := compress.DecompressSized(compressor, payload, int(h.RawLength)) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}
	if raw == nil {
		raw = []byte{}
	}

	if !bytes.Equal(sum, digest(h.Checksum, raw)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrChecksumMismatch, h.Checksum)
	}

	return raw, nil
}

// Write frames raw and writes it to w.
func Write(w io.Writer, raw []byte, opts ...Option) (int64, error) {
	data, err := Encode(raw, opts...)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)

	return int64(n), err
}

// Read reads exactly one frame from r and returns the verified tree.
func Read(r io.Reader) ([]byte, error) {
	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	var h Header
	if err := h.Parse(head); err != nil {
		return nil, err
	}

	// The body is copied as it arrives so a forged StoredLength costs only
	// the bytes the stream actually holds.
	sumSize := h.Checksum.Size()
	want := int64(sumSize) + int64(h.StoredLength) //nolint:gosec
	var body bytes.Buffer
	if n, err := io.CopyN(&body, r, want); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("%w: read %d of %d body bytes: %w", errs.ErrInvalidFrame, n, want, err)
	}
	data := body.Bytes()

	return decodeBody(h, data[:sumSize], data[sumSize:])
}

// Open decodes a frame and validates the tree inside before handing it out
// as an Owned tree.
func Open[V any](data []byte, c codec.Codec[V]) (*tree.Owned[V], error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}

	owned := tree.NewOwned(raw, c)
	if err := owned.View().Validate(); err != nil {
		return nil, err
	}

	return owned, nil
}
