package blobrepo

import (
	"encoding/json"
	"fmt"

	"meddelivery/internal/pkg/errs"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// Compression selects the compression applied after encoding.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Codec turns the deliveries document into bytes and back: encode, then compress.
type Codec struct {
	format      Format
	compression Compression
}

// NewCodec accepts empty values as json and none.
func NewCodec(format Format, compression Compression) (Codec, error) {
	if format == "" {
		format = FormatJSON
	}
	if compression == "" {
		compression = CompressionNone
	}

	switch format {
	case FormatJSON, FormatMsgPack:
	default:
		return Codec{}, errs.NewValueIsInvalidErrorWithCause("blob codec", fmt.Errorf("unsupported format %q", format))
	}
	switch compression {
	case CompressionNone, CompressionZstd:
	default:
		return Codec{}, errs.NewValueIsInvalidErrorWithCause(
			"blob compression", fmt.Errorf("unsupported compression %q", compression))
	}

	return Codec{format: format, compression: compression}, nil
}

func (c Codec) String() string {
	return fmt.Sprintf("%s+%s", c.format, c.compression)
}

func (c Codec) Encode(v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch c.format {
	case FormatMsgPack:
		data, err = msgpack.Marshal(v)
	default:
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%s encoding failed: %w", c.format, err)
	}

	if c.compression != CompressionZstd {
		return data, nil
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

func (c Codec) Decode(data []byte, v any) error {
	if c.compression == CompressionZstd {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return fmt.Errorf("zstd reader: %w", err)
		}
		defer decoder.Close()

		if data, err = decoder.DecodeAll(data, nil); err != nil {
			return fmt.Errorf("zstd decompression failed: %w", err)
		}
	}

	var err error
	switch c.format {
	case FormatMsgPack:
		err = msgpack.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("%s decoding failed: %w", c.format, err)
	}
	return nil
}
