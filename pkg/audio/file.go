package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File is a WAV-backed Stream: mono, 16-bit PCM, used by -f/--file.
// WAV parsing is hand-rolled against the standard library rather than
// pulled from a library: the format is a fixed 44-byte header plus a
// raw PCM data chunk, well within stdlib territory.
type File struct {
	f          *os.File
	sampleRate float64
	writing    bool
	dataStart  int64
	dataBytes  uint32
	written    uint32
}

const wavHeaderSize = 44

// OpenFileRead opens path for reading as a WAV stream.
func OpenFileRead(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	hdr := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: reading wav header: %w", err)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		f.Close()
		return nil, fmt.Errorf("audio: %s is not a RIFF/WAVE file", path)
	}
	sampleRate := float64(binary.LittleEndian.Uint32(hdr[24:28]))
	dataBytes := binary.LittleEndian.Uint32(hdr[40:44])
	return &File{f: f, sampleRate: sampleRate, dataStart: wavHeaderSize, dataBytes: dataBytes}, nil
}

// CreateFileWrite creates path as a WAV stream for writing at
// sampleRate; the header's data-length fields are patched in on
// Close once the final byte count is known.
func CreateFileWrite(path string, sampleRate float64) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := writeWavHeaderPlaceholder(f, sampleRate); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, sampleRate: sampleRate, writing: true, dataStart: wavHeaderSize}, nil
}

func writeWavHeaderPlaceholder(f *os.File, sampleRate float64) error {
	var hdr [wavHeaderSize]byte
	copy(hdr[0:4], "RIFF")
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], 1) // mono
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	byteRate := uint32(sampleRate) * 2
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], 2) // block align
	binary.LittleEndian.PutUint16(hdr[34:36], 16)
	copy(hdr[36:40], "data")
	_, err := f.Write(hdr[:])
	return err
}

func (fs *File) SampleRate() float64 { return fs.sampleRate }

func (fs *File) Read(buf []float64) (int, error) {
	if fs.writing {
		return 0, fmt.Errorf("audio: file opened for writing")
	}
	raw := make([]byte, len(buf)*2)
	n, err := io.ReadFull(fs.f, raw)
	samples := n / 2
	for i := 0; i < samples; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		buf[i] = Int16ToFloat64(s)
	}
	if err == io.ErrUnexpectedEOF {
		err = nil
		if samples == 0 {
			err = io.EOF
		}
	}
	return samples, err
}

func (fs *File) Write(buf []float64) error {
	if !fs.writing {
		return fmt.Errorf("audio: file opened for reading")
	}
	raw := make([]byte, len(buf)*2)
	for i, v := range buf {
		binary.LittleEndian.PutUint16(raw[i*2:i*2+2], uint16(Float64ToInt16(v)))
	}
	if _, err := fs.f.Write(raw); err != nil {
		return err
	}
	fs.written += uint32(len(raw))
	return nil
}

func (fs *File) Close() error {
	if fs.writing {
		riffSize := wavHeaderSize - 8 + fs.written
		if _, err := fs.f.Seek(4, io.SeekStart); err == nil {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], riffSize)
			fs.f.Write(b[:])
		}
		if _, err := fs.f.Seek(40, io.SeekStart); err == nil {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], fs.written)
			fs.f.Write(b[:])
		}
	}
	return fs.f.Close()
}
