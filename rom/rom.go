// Package rom provides the wave ROM address space: a word-addressed
// image and a read-through cache in front of it.
package rom

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// AddressMask limits word addresses to the 25-bit wave ROM space.
const AddressMask = 1<<25 - 1

// ErrEmptyImage is returned when an image has no complete 32-bit word.
var ErrEmptyImage = errors.New("rom: empty image")

// Reader returns 32-bit wave ROM words.
type Reader interface {
	ReadWord(addr uint32) uint32
}

// Image is a wave ROM held in memory.
type Image struct {
	words []uint32
	crc   uint32
}

// NewImage builds an image from little-endian bytes. Trailing bytes that
// do not fill a word are dropped.
func NewImage(data []byte) (*Image, error) {
	n := len(data) / 4
	if n == 0 {
		return nil, ErrEmptyImage
	}
	if n > AddressMask+1 {
		n = AddressMask + 1
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return &Image{words: words, crc: crc32.ChecksumIEEE(data[:n*4])}, nil
}

// NewImageWords builds an image directly from words.
func NewImageWords(words []uint32) *Image {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return &Image{words: append([]uint32(nil), words...), crc: crc32.ChecksumIEEE(buf)}
}

// ReadWord returns the word at addr. Addresses are masked to 25 bits and
// words past the end of the image read as 0.
func (m *Image) ReadWord(addr uint32) uint32 {
	addr &= AddressMask
	if int(addr) >= len(m.words) {
		return 0
	}
	return m.words[addr]
}

// Len returns the image size in words.
func (m *Image) Len() int { return len(m.words) }

// CRC32 returns the IEEE checksum of the image bytes.
func (m *Image) CRC32() uint32 { return m.crc }
