package audio

import (
	"fmt"
	"io"

	"github.com/gen2brain/malgo"
)

// System is the default full-duplex backend, wrapping malgo's
// callback-driven capture/playback device behind the package's
// blocking Stream contract. Captured samples are pushed onto a
// channel from the audio callback and pulled off it by Read; Write
// pushes onto a channel drained by the playback callback, which
// zero-fills on underrun rather than blocking the device thread.
type System struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	captureCh  chan float64
	playbackCh chan float64
	sampleRate float64
	closed     bool
}

// OpenSystem opens the platform default duplex device at sampleRate.
func OpenSystem(sampleRate float64) (*System, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("audio: malgo init context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Duplex)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = 1
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 1
	cfg.SampleRate = uint32(sampleRate)

	s := &System{
		ctx:        ctx,
		captureCh:  make(chan float64, 1<<16),
		playbackCh: make(chan float64, 1<<16),
		sampleRate: sampleRate,
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, in []byte, frameCount uint32) {
			for i := uint32(0); i < frameCount; i++ {
				sample := int16(in[i*2]) | int16(in[i*2+1])<<8
				select {
				case s.captureCh <- Int16ToFloat64(sample):
				default:
				}

				var v float64
				select {
				case v = <-s.playbackCh:
				default:
					v = 0
				}
				enc := Float64ToInt16(v)
				out[i*2] = byte(enc)
				out[i*2+1] = byte(enc >> 8)
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audio: malgo init device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audio: malgo start device: %w", err)
	}

	s.device = device
	return s, nil
}

func (s *System) SampleRate() float64 { return s.sampleRate }

func (s *System) Read(buf []float64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n := 0
	for n < len(buf) {
		v, ok := <-s.captureCh
		if !ok {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		buf[n] = v
		n++
	}
	return n, nil
}

func (s *System) Write(buf []float64) error {
	if s.closed {
		return ErrClosed
	}
	for _, v := range buf {
		s.playbackCh <- v
	}
	return nil
}

func (s *System) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.captureCh)
	close(s.playbackCh)
	s.device.Uninit()
	s.ctx.Uninit()
	s.ctx.Free()
	return nil
}
