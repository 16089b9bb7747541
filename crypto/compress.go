package crypto

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Deflate via stdlib compress/flate; Brotli via andybalholm/brotli.
//----------------------------------------------------------------------

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/andybalholm/brotli"

	herrors "github.com/bfix/hyperborea/errors"
)

// Compression names the message payload's supported compression schemes.
type Compression int

const (
	// CompressionNone leaves the payload uncompressed.
	CompressionNone Compression = iota
	// CompressionDeflate compresses with DEFLATE.
	CompressionDeflate
	// CompressionBrotli compresses with Brotli.
	CompressionBrotli
)

// Compress compresses raw at the given level (scheme-specific range;
// clamped by each codec).
func Compress(c Compression, raw []byte, level int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case CompressionDeflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, clamp(level, flate.NoCompression, flate.BestCompression, flate.DefaultCompression))
		if err != nil {
			return nil, herrors.New(herrors.ErrIO, "deflate writer: %v", err)
		}
		if _, err := w.Write(raw); err != nil {
			return nil, herrors.New(herrors.ErrIO, "deflate write: %v", err)
		}
		if err := w.Close(); err != nil {
			return nil, herrors.New(herrors.ErrIO, "deflate close: %v", err)
		}
		return buf.Bytes(), nil
	case CompressionBrotli:
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, clamp(level, brotli.BestSpeed, brotli.BestCompression, brotli.DefaultCompression))
		if _, err := w.Write(raw); err != nil {
			return nil, herrors.New(herrors.ErrIO, "brotli write: %v", err)
		}
		if err := w.Close(); err != nil {
			return nil, herrors.New(herrors.ErrIO, "brotli close: %v", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, herrors.New(herrors.ErrAsJSON, "unknown compression scheme %d", c)
	}
}

// Decompress reverses Compress.
func Decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionDeflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, herrors.New(herrors.ErrIO, "deflate read: %v", err)
		}
		return out, nil
	case CompressionBrotli:
		r := brotli.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, herrors.New(herrors.ErrIO, "brotli read: %v", err)
		}
		return out, nil
	default:
		return nil, herrors.New(herrors.ErrAsJSON, "unknown compression scheme %d", c)
	}
}

func clamp(level, lo, hi, dflt int) int {
	if level == 0 {
		return dflt
	}
	if level < lo {
		return lo
	}
	if level > hi {
		return hi
	}
	return level
}
