package transmit

import (
	"io"
	"time"

	"fskmodem/pkg/audio"
	"fskmodem/pkg/framebits"
	"fskmodem/pkg/fsk"
)

// Transmitter emits leader, data and trailer bits through an
// Oscillator, reusing the same framebits.Codec the receive side
// decodes with.
type Transmitter struct {
	Plan        *fsk.Plan
	Codec       framebits.Codec
	Osc         *Oscillator
	LeaderBits  int // default 2
	TrailerBits int // default 2
	StopBits    float64
}

// idleTimeout is 1000000/(data_rate + data_rate*0.03) microseconds of
// silence before the trailer is flushed.
func (tx *Transmitter) idleTimeout() time.Duration {
	micros := 1e6 / (tx.Plan.DataRate + tx.Plan.DataRate*0.03)
	return time.Duration(micros * float64(time.Microsecond))
}

// Run reads bytes from input and writes their tones to stream until
// input is exhausted, emitting a leader the first time a byte arrives
// after idle and a trailer (plus 0.5s of silence) whenever the idle
// timer fires or input closes while transmitting. The cooperative
// {transmitting} flag plus a single-shot idle timer take the place of
// a process-wide signal handler: the idle timer is the only
// transmit-side suspension point besides audio.Write and reading from
// input.
func (tx *Transmitter) Run(input io.Reader, stream audio.Stream) error {
	byteCh := make(chan byte)
	readErrCh := make(chan error, 1)

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := input.Read(buf)
			if n > 0 {
				byteCh <- buf[0]
			}
			if err != nil {
				close(byteCh)
				if err != io.EOF {
					readErrCh <- err
				}
				return
			}
		}
	}()

	transmitting := false
	timer := time.NewTimer(tx.idleTimeout())
	defer timer.Stop()

	for {
		select {
		case b, ok := <-byteCh:
			if !ok {
				if transmitting {
					if err := tx.emitTrailer(stream); err != nil {
						return err
					}
				}
				select {
				case err := <-readErrCh:
					return err
				default:
					return nil
				}
			}
			if !transmitting {
				if err := tx.emitLeader(stream); err != nil {
					return err
				}
				transmitting = true
			}
			if err := tx.emitByte(b, stream); err != nil {
				return err
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(tx.idleTimeout())

		case <-timer.C:
			if transmitting {
				if err := tx.emitTrailer(stream); err != nil {
					return err
				}
				transmitting = false
				tx.Codec.Reset()
			}
			timer.Reset(tx.idleTimeout())
		}
	}
}

func (tx *Transmitter) emitLeader(stream audio.Stream) error {
	return tx.emitTone(stream, tx.Plan.Mark, tx.LeaderBits)
}

// emitTrailer sends TrailerBits of mark tone followed by 0.5s of
// silence. Whether 0.5s flat is the right constant across every data
// rate is left deliberately unresolved rather than tuned per rate.
func (tx *Transmitter) emitTrailer(stream audio.Stream) error {
	if err := tx.emitTone(stream, tx.Plan.Mark, tx.TrailerBits); err != nil {
		return err
	}
	silence := make([]float64, int(0.5*tx.Plan.SampleRate))
	return stream.Write(silence)
}

func (tx *Transmitter) emitTone(stream audio.Stream, freq float64, bits int) error {
	n := int(float64(bits) * tx.Plan.NSamplesPerBit)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = tx.Osc.Next(freq)
	}
	return stream.Write(samples)
}

func (tx *Transmitter) emitByte(b byte, stream audio.Stream) error {
	for _, word := range tx.Codec.Encode(b) {
		if err := tx.emitWord(word, stream); err != nil {
			return err
		}
	}
	return nil
}

func (tx *Transmitter) emitWord(word uint32, stream audio.Stream) error {
	if err := tx.emitTone(stream, tx.Plan.Space, 1); err != nil { // start bit
		return err
	}
	for i := 0; i < tx.Plan.DataBits; i++ {
		bit := (word >> uint(i)) & 1
		freq := tx.Plan.Space
		if bit == 1 {
			freq = tx.Plan.Mark
		}
		if err := tx.emitTone(stream, freq, 1); err != nil {
			return err
		}
	}
	stopSamples := int(tx.StopBits * tx.Plan.NSamplesPerBit)
	samples := make([]float64, stopSamples)
	for i := range samples {
		samples[i] = tx.Osc.Next(tx.Plan.Mark)
	}
	return stream.Write(samples)
}
