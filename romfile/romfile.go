// Package romfile loads wave ROM images from disk, decompressing them by
// file extension.
package romfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"

	"github.com/user-none/emswp/rom"
)

// MaxSize is the largest image the 25-bit word address space can hold.
const MaxSize = (rom.AddressMask + 1) * 4

var (
	ErrTooLarge  = errors.New("romfile: image larger than the wave ROM address space")
	ErrNotWords  = errors.New("romfile: image size is not a multiple of 4 bytes")
	ErrEmptyFile = errors.New("romfile: empty file")
)

// Compression identifies the container a ROM file is stored in.
type Compression int

const (
	Raw Compression = iota
	Zstd
	Gzip
	XZ
	LZ4
)

var compressionNames = [...]string{"raw", "zstd", "gzip", "xz", "lz4"}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// Detect returns the compression implied by the file extension.
func Detect(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	case ".xz":
		return XZ
	case ".lz4":
		return LZ4
	}
	return Raw
}

// Load reads the ROM at path from fs and returns it as an image.
func Load(fs afero.Fs, path string) (*rom.Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := Read(f, Detect(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom.NewImage(data)
}

// Read decompresses r according to c. The output is capped at one byte
// past MaxSize so oversized images are detected without reading them
// whole.
func Read(r io.Reader, c Compression) ([]byte, error) {
	var src io.Reader
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		src = gz
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		src = xr
	case LZ4:
		src = lz4.NewReader(r)
	default:
		src = r
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(src, MaxSize+1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that data can be used as a wave ROM image.
func Validate(data []byte) error {
	switch {
	case len(data) == 0:
		return ErrEmptyFile
	case len(data) > MaxSize:
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, len(data))
	case len(data)%4 != 0:
		return fmt.Errorf("%w (%d bytes)", ErrNotWords, len(data))
	}
	return nil
}

// Write stores data at path in fs, compressed according to the path's
// extension.
func Write(fs afero.Fs, path string, data []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := writeCompressed(f, Detect(path), data); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func writeCompressed(w io.Writer, c Compression, data []byte) error {
	var wc io.WriteCloser
	switch c {
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		wc = enc
	case Gzip:
		wc = gzip.NewWriter(w)
	case XZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return err
		}
		wc = xw
	case LZ4:
		wc = lz4.NewWriter(w)
	default:
		_, err := w.Write(data)
		return err
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
