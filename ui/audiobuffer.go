package ui

import (
	"io"
	"sync"
)

// frameBytes is one 16-bit stereo frame.
const frameBytes = 4

// AudioRingBuffer is a thread-safe ring buffer implementing io.Reader.
// The emulation goroutine writes samples via Write(), and oto's player
// reads them via Read(). Read blocks when empty; Write drops the oldest
// whole frames on overflow to prevent stalling the producer.
type AudioRingBuffer struct {
	buf      []byte
	readPos  int
	writePos int
	count    int
	capacity int
	mu       sync.Mutex
	cond     *sync.Cond
	closed   bool
	scratch  []byte // WriteSamples conversion buffer
}

// NewAudioRingBuffer creates a ring buffer with the given capacity in
// bytes, rounded down to whole frames.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	capacity -= capacity % frameBytes
	if capacity < frameBytes {
		capacity = frameBytes
	}
	rb := &AudioRingBuffer{
		buf:      make([]byte, capacity),
		capacity: capacity,
	}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// WriteSamples converts interleaved int16 stereo samples to little-endian
// bytes and writes them.
func (rb *AudioRingBuffer) WriteSamples(samples []int16) {
	rb.mu.Lock()
	needed := len(samples) * 2
	if cap(rb.scratch) < needed {
		rb.scratch = make([]byte, 0, needed)
	}
	p := rb.scratch[:0]
	for _, sample := range samples {
		p = append(p, byte(sample), byte(sample>>8))
	}
	rb.scratch = p
	rb.write(p)
	rb.mu.Unlock()
}

// Write adds data to the buffer. Non-blocking; if the buffer overflows,
// oldest frames are dropped to make room for new data.
func (rb *AudioRingBuffer) Write(p []byte) {
	rb.mu.Lock()
	rb.write(p)
	rb.mu.Unlock()
}

func (rb *AudioRingBuffer) write(p []byte) {
	if rb.closed {
		return
	}

	n := len(p)
	if n == 0 {
		return
	}

	// If data is larger than capacity, only write the last capacity bytes
	if n > rb.capacity {
		p = p[n-rb.capacity:]
		n = rb.capacity
	}

	// Drop oldest data in whole frames so left and right never swap
	overflow := rb.count + n - rb.capacity
	if overflow > 0 {
		if r := overflow % frameBytes; r != 0 {
			overflow += frameBytes - r
		}
		if overflow > rb.count {
			overflow = rb.count
		}
		rb.readPos = (rb.readPos + overflow) % rb.capacity
		rb.count -= overflow
	}

	// Write data to buffer (may wrap around)
	firstChunk := rb.capacity - rb.writePos
	if firstChunk >= n {
		copy(rb.buf[rb.writePos:], p)
	} else {
		copy(rb.buf[rb.writePos:], p[:firstChunk])
		copy(rb.buf[0:], p[firstChunk:])
	}
	rb.writePos = (rb.writePos + n) % rb.capacity
	rb.count += n

	// Signal readers that data is available
	rb.cond.Signal()
}

// Read implements io.Reader. Blocks until data is available or the buffer
// is closed. Returns io.EOF when closed and empty.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	// Wait for data
	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := min(len(p), rb.count)

	// Copy data from buffer (may wrap around)
	firstChunk := rb.capacity - rb.readPos
	if firstChunk >= n {
		copy(p, rb.buf[rb.readPos:rb.readPos+n])
	} else {
		copy(p, rb.buf[rb.readPos:])
		copy(p[firstChunk:], rb.buf[:n-firstChunk])
	}
	rb.readPos = (rb.readPos + n) % rb.capacity
	rb.count -= n

	return n, nil
}

// Buffered returns the number of bytes currently in the buffer.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Clear resets the buffer, discarding all data.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// Close signals shutdown. Subsequent Reads return io.EOF when the buffer
// is empty. Unblocks any goroutines waiting in Read.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
