package rom

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LineWords is the number of words fetched per cache line.
const LineWords = 16

type line [LineWords]uint32

// Cache is a read-through line cache over a Reader. Voice fetches and
// host reads share it; it never writes through.
type Cache struct {
	src   Reader
	lines *lru.Cache[uint32, *line]

	hits   uint64
	misses uint64
}

// NewCache creates a cache holding up to lines lines of src.
func NewCache(src Reader, lines int) (*Cache, error) {
	l, err := lru.New[uint32, *line](lines)
	if err != nil {
		return nil, err
	}
	return &Cache{src: src, lines: l}, nil
}

// ReadWord returns the word at addr, filling its line on a miss.
func (c *Cache) ReadWord(addr uint32) uint32 {
	addr &= AddressMask
	tag := addr / LineWords
	if ln, ok := c.lines.Get(tag); ok {
		c.hits++
		return ln[addr%LineWords]
	}
	c.misses++
	ln := new(line)
	base := tag * LineWords
	for i := range ln {
		ln[i] = c.src.ReadWord(base + uint32(i))
	}
	c.lines.Add(tag, ln)
	return ln[addr%LineWords]
}

// Purge drops every cached line, e.g. after the backing image changes.
func (c *Cache) Purge() {
	c.lines.Purge()
}

// Stats returns hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// Source returns the backing reader.
func (c *Cache) Source() Reader {
	return c.src
}
