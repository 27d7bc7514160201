// Package cli parses the modem's command line using
// github.com/spf13/pflag for GNU-style short/long flag pairs.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds every parsed flag plus the resolved positional
// baudmode argument.
type Config struct {
	Tx   bool
	Rx   bool
	ASCII  bool
	Baudot bool

	Confidence float64
	SearchLimit float64
	AutoCarrier bool
	AutoCarrierThreshold float64

	File    string
	Backend string // "system", "file", "discard" — supplements -A/--alsa

	Bandwidth float64
	Mark      float64
	Space     float64
	TxStopBits float64

	Quiet      bool
	SampleRate float64
	LUTSize    int
	FloatSamples bool
	Gain       float64

	Version    bool
	Benchmarks bool

	BaudMode string // positional: "rtty" or a numeric bps string
}

// Parse parses args (excluding argv[0]) into a Config.
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("fskmodem", pflag.ContinueOnError)

	cfg := &Config{}
	fs.BoolVarP(&cfg.Tx, "tx", "t", false, "transmit mode")
	fs.BoolVarP(&cfg.Rx, "rx", "r", false, "receive mode")
	fs.Float64VarP(&cfg.Confidence, "confidence", "c", 2.0, "minimum confidence threshold")
	fs.Float64VarP(&cfg.SearchLimit, "limit", "l", 2.3, "confidence search limit (0 = exhaustive)")
	fs.BoolVarP(&cfg.AutoCarrier, "auto-carrier", "a", false, "auto-detect carrier band")
	fs.Float64Var(&cfg.AutoCarrierThreshold, "auto-carrier-threshold", 0.001, "auto-carrier magnitude-over-mean detection threshold")
	fs.BoolVarP(&cfg.ASCII, "ascii", "8", false, "force 8-bit ASCII framing")
	fs.BoolVarP(&cfg.Baudot, "baudot", "5", false, "force 5-bit Baudot framing")
	fs.StringVarP(&cfg.File, "file", "f", "", "read/write audio from/to a WAV file instead of the system device")
	fs.StringVar(&cfg.Backend, "backend", "", "audio backend: system, file, discard (defaults from --file)")
	fs.Float64VarP(&cfg.Bandwidth, "bandwidth", "b", 0, "per-tone analysis bandwidth override (Hz)")
	fs.Float64VarP(&cfg.Mark, "mark", "M", 0, "mark frequency override (Hz)")
	fs.Float64VarP(&cfg.Space, "space", "S", 0, "space frequency override (Hz)")
	fs.Float64VarP(&cfg.TxStopBits, "txstopbits", "T", 0, "transmit stop-bit count override")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress CARRIER/NOCARRIER reports")
	fs.Float64VarP(&cfg.SampleRate, "samplerate", "R", 48000, "audio sample rate (Hz)")
	fs.IntVar(&cfg.LUTSize, "lut", 4096, "sine LUT size, 0 disables the LUT")
	fs.BoolVar(&cfg.FloatSamples, "float-samples", false, "accepted but not used: every backend exchanges S16 samples")
	fs.Float64Var(&cfg.Gain, "gain", 1.0, "transmit output gain, 0.0 to 1.0")
	fs.BoolVarP(&cfg.Version, "version", "V", false, "print version and exit")
	fs.BoolVar(&cfg.Benchmarks, "benchmarks", false, "run tone-generation benchmarks and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	switch {
	case cfg.Version, cfg.Benchmarks:
		// no positional baudmode required
	case len(rest) >= 1:
		cfg.BaudMode = rest[0]
	default:
		return nil, fmt.Errorf("cli: missing required baudmode argument (\"rtty\" or a bit rate)")
	}

	if cfg.Tx && cfg.Rx {
		return nil, fmt.Errorf("cli: --tx and --rx are mutually exclusive")
	}
	if !cfg.Tx {
		cfg.Rx = true // default mode is receive
	}

	if cfg.Backend == "" {
		if cfg.File != "" {
			cfg.Backend = "file"
		} else {
			cfg.Backend = "system"
		}
	}

	return cfg, nil
}
