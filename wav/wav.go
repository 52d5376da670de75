// Package wav writes 16-bit stereo PCM wave files.
package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/spf13/afero/mem"
)

const (
	numChannels = 2
	bitDepth    = 16
	formatPCM   = 1
)

// ErrOddSamples is returned when interleaved stereo data has a dangling
// left sample.
var ErrOddSamples = errors.New("wav: odd number of stereo samples")

// Writer streams samples to a seekable file. The encoder fills in the
// chunk sizes on Close.
type Writer struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int
	file   io.Closer // Set by Create
	closed bool
}

// NewWriter writes the header and returns a Writer positioned at the
// start of the data chunk.
func NewWriter(w io.WriteSeeker, sampleRate int) (*Writer, error) {
	wr := &Writer{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, numChannels, formatPCM),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}
	// An empty write emits the header so an unused Writer still closes
	// into a valid file
	if err := wr.enc.Write(wr.buf); err != nil {
		return nil, fmt.Errorf("wav: could not write header: %w", err)
	}
	return wr, nil
}

// Create creates name on fs and returns a Writer that owns the file.
// Close finalizes the header and closes the file.
func Create(fs afero.Fs, name string, sampleRate int) (*Writer, error) {
	f, err := fs.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, sampleRate)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// WriteSamples appends interleaved stereo samples.
func (w *Writer) WriteSamples(samples []int16) error {
	if len(samples)%numChannels != 0 {
		return ErrOddSamples
	}
	data := w.buf.Data[:0]
	for _, s := range samples {
		data = append(data, int(s))
	}
	w.buf.Data = data
	if err := w.enc.Write(w.buf); err != nil {
		return err
	}
	w.frames += len(samples) / numChannels
	return nil
}

// Frames returns the number of stereo frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Close rewrites the header with the final sizes and leaves the file
// positioned at its end. The underlying file is closed only when the
// Writer came from Create. Calls after the first return nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.enc.Close()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Encode returns a complete wave file holding the interleaved stereo
// samples.
func Encode(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples)%numChannels != 0 {
		return nil, ErrOddSamples
	}
	f := mem.NewFileHandle(mem.CreateFile("encode.wav"))
	w, err := NewWriter(f, sampleRate)
	if err != nil {
		return nil, err
	}
	if err := w.WriteSamples(samples); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
