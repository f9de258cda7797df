package frame

import (
	"fmt"

	"github.com/arloliu/ctree/compress"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
	"github.com/arloliu/ctree/internal/options"
)

type encoderConfig struct {
	compression format.CompressionType
	checksum    format.ChecksumType
}

// Option configures Encode and Write.
type Option = options.Option[*encoderConfig]

// WithCompression selects the payload compression. The default is
// format.CompressionNone.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *encoderConfig) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		c.compression = compressionType

		return nil
	})
}

// WithChecksum selects the checksum over the raw tree. The default is
// format.ChecksumXXHash.
func WithChecksum(checksumType format.ChecksumType) Option {
	return options.New(func(c *encoderConfig) error {
		if checksumType.Size() < 0 {
			return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedChecksum, uint8(checksumType))
		}
		c.checksum = checksumType

		return nil
	})
}

func newEncoderConfig(opts []Option) (*encoderConfig, error) {
	cfg := &encoderConfig{
		compression: format.CompressionNone,
		checksum:    format.ChecksumXXHash,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
