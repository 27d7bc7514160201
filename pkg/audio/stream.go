// Package audio provides the modem's abstract sample stream and the
// concrete backends (system device, WAV file, discard sink) behind
// it. Every backend exchanges normalized float64 samples in [-1, 1];
// format conversion to the wire representation is each backend's own
// concern. The system and file backends both use S16 on the wire;
// the CLI's --float-samples flag does not change that.
package audio

import "io"

// Stream is the modem's only interface to the outside world. Reads
// and writes are blocking: they are the loops' only suspension
// points, and the receive/transmit loops never call them concurrently
// with themselves.
type Stream interface {
	// SampleRate reports the stream's fixed sample rate in Hz.
	SampleRate() float64
	// Read blocks until at least one sample is available or the
	// stream is exhausted, returning io.EOF on clean end of stream.
	Read(buf []float64) (n int, err error)
	// Write blocks until buf has been fully written.
	Write(buf []float64) error
	// Close releases the backend's resources.
	Close() error
}

// ErrClosed is returned by Read/Write after Close.
var ErrClosed = io.ErrClosedPipe
