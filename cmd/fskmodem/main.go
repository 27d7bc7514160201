// Command fskmodem is a software FSK modem: Bell 103, Bell 202, V.21
// and RTTY over an audio channel, in either direction.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"fskmodem/pkg/audio"
	"fskmodem/pkg/bellmode"
	"fskmodem/pkg/cli"
	"fskmodem/pkg/fixed"
	"fskmodem/pkg/framebits"
	"fskmodem/pkg/fsk"
	"fskmodem/pkg/receive"
	"fskmodem/pkg/transmit"
)

func main() {
	logger := log.New(os.Stderr)
	logger.SetReportTimestamp(false)

	if err := run(os.Args[1:], logger); err != nil {
		logger.Fatal(err)
	}
}

func run(args []string, logger *log.Logger) error {
	cfg, err := cli.Parse(args)
	if err != nil {
		return err
	}
	if cfg.Quiet {
		logger.SetLevel(log.WarnLevel)
	}

	if cfg.Version {
		fmt.Println(cli.VersionString())
		return nil
	}
	if cfg.Benchmarks {
		return transmit.RunBenchmarks(cfg.SampleRate, 0.25, os.Stdout)
	}

	profile, err := bellmode.Resolve(cfg.BaudMode, cfg.Mark, cfg.Space, cfg.Bandwidth)
	if err != nil {
		return err
	}
	if cfg.ASCII {
		profile.Baudot = false
		profile.DataBits = 8
	}
	if cfg.Baudot {
		profile.Baudot = true
		profile.DataBits = 5
	}
	if cfg.TxStopBits != 0 {
		profile.StopBits = cfg.TxStopBits
	}
	cfg.SearchLimit = bellmode.SanitizeSearchLimit(cfg.Confidence, cfg.SearchLimit)

	plan, err := fsk.New(cfg.SampleRate, profile.DataRate, profile.Mark, profile.Space, profile.Bandwidth, profile.DataBits)
	if err != nil {
		return err
	}

	stream, err := openStream(cfg, plan)
	if err != nil {
		return err
	}
	defer stream.Close()

	codec := newCodec(profile)

	if cfg.Tx {
		osc := transmit.NewOscillator(cfg.SampleRate, transmit.NewSineTable(cfg.LUTSize))
		gain := cfg.Gain
		if gain < 0 {
			gain = 0
		}
		if gain > 1 {
			gain = 1
		}
		osc.Amplitude = fixed.FromFloat(gain)

		tx := &transmit.Transmitter{
			Plan:        plan,
			Codec:       codec,
			Osc:         osc,
			LeaderBits:  2,
			TrailerBits: 2,
			StopBits:    profile.StopBits,
		}
		return tx.Run(os.Stdin, stream)
	}

	loop := &receive.Loop{
		Plan:                plan,
		Codec:               codec,
		ConfidenceThreshold: cfg.Confidence,
		SearchLimit:         cfg.SearchLimit,
		Logger:              logger,
	}
	if cfg.AutoCarrier {
		loop.Auto = receive.AutoCarrier{
			Enabled:   true,
			BShift:    bellmode.AutoDetectBandShift(profile.AutoShift, profile.Bandwidth),
			Threshold: cfg.AutoCarrierThreshold,
		}
	}

	reports := os.Stderr
	if cfg.Quiet {
		return loop.Run(stream, os.Stdout, discardWriter{})
	}
	return loop.Run(stream, os.Stdout, reports)
}

func newCodec(p bellmode.Profile) framebits.Codec {
	if p.Baudot {
		return framebits.NewBaudot()
	}
	return framebits.NewASCII()
}

func openStream(cfg *cli.Config, plan *fsk.Plan) (audio.Stream, error) {
	switch cfg.Backend {
	case "file":
		if cfg.Tx {
			return audio.CreateFileWrite(cfg.File, cfg.SampleRate)
		}
		return audio.OpenFileRead(cfg.File)
	case "discard":
		return audio.NewDiscard(cfg.SampleRate, 0), nil
	default:
		return audio.OpenSystem(cfg.SampleRate)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
