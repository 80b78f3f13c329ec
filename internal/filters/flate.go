package filters

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Flate decompresses zlib data, falling back to a raw deflate stream
// when the zlib header is missing, then reverses any predictor.
func Flate(data []byte, params Params) ([]byte, error) {
	decompressed, err := inflate(data)
	if err != nil {
		return nil, err
	}
	return applyPredictor(decompressed, params)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		out, err := io.ReadAll(zr)
		zr.Close()
		if err == nil || (len(out) > 0 && isTruncation(err)) {
			return out, nil
		}
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	out, rawErr := io.ReadAll(flate.NewReader(bytes.NewReader(data)))
	if rawErr == nil || (len(out) > 0 && isTruncation(rawErr)) {
		return out, nil
	}
	return nil, fmt.Errorf("zlib header invalid (%v) and raw deflate failed: %w", err, rawErr)
}

// isTruncation reports a stream cut short or a bad trailing checksum.
// Output read before either error is kept.
func isTruncation(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)
}

// FlateEncode compresses data with zlib at the default level
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}
