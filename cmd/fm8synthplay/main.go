// Command fm8synthplay drives the FM synthesis engine from the command
// line: load a preset bank, trigger a note, and bounce the result to a
// WAV file or stream it to the default audio device.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/pflag"

	fm8synth "github.com/vossard/fm8synth-go"
	"github.com/vossard/fm8synth-go/internal/bank"
)

func main() {
	var (
		sampleRate = pflag.IntP("sample-rate", "r", 48000, "output sample rate")
		note       = pflag.IntP("note", "n", 60, "MIDI note number to trigger")
		velocity   = pflag.IntP("velocity", "V", 100, "note velocity (1-127)")
		duration   = pflag.Float64P("duration", "d", 2.0, "seconds to hold the note before release")
		tail       = pflag.Float64P("tail", "t", 1.0, "seconds of release tail to render after note off")
		bankPath   = pflag.StringP("bank", "b", "", "path to a preset bank manifest (YAML)")
		presetName = pflag.StringP("preset", "p", "", "preset name to load from --bank before playing")
		outPath    = pflag.StringP("out", "o", "", "write rendered audio to this WAV file instead of streaming live")
		sentryDSN  = pflag.String("sentry-dsn", os.Getenv("FM8SYNTH_SENTRY_DSN"), "Sentry DSN for crash reporting (optional)")
		help       = pflag.BoolP("help", "h", false, "display help text")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fm8synthplay [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	logger := log.New(os.Stderr)

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			logger.Warn("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			defer func() {
				if r := recover(); r != nil {
					if err, ok := r.(error); ok {
						sentry.CaptureException(err)
					} else {
						sentry.CaptureException(fmt.Errorf("panic: %v", r))
					}
					sentry.Flush(2 * time.Second)
					panic(r)
				}
			}()
		}
	}

	pl, err := fm8synth.NewPlayer(*sampleRate)
	if err != nil {
		logger.Fatal("new player", "error", err)
	}

	if *bankPath != "" {
		b, err := bank.Load(*bankPath)
		if err != nil {
			logger.Fatal("load bank", "error", err)
		}
		applied := false
		for _, p := range b.Presets {
			if p.Name == *presetName {
				if err := bank.Apply(pl.Engine(), p); err != nil {
					logger.Fatal("apply preset", "error", err)
				}
				applied = true
				break
			}
		}
		if *presetName != "" && !applied {
			logger.Fatal("preset not found in bank", "preset", *presetName)
		}
	}

	if err := pl.NoteOn(uint8(*note), uint8(*velocity)); err != nil {
		logger.Fatal("note on", "error", err)
	}

	if *outPath != "" {
		held := fm8synth.RenderSeconds(pl.Engine(), *sampleRate, *duration)
		pl.NoteOff(uint8(*note))
		released := fm8synth.RenderSeconds(pl.Engine(), *sampleRate, *tail)
		samples := append(held, released...)

		wav := fm8synth.EncodeWAVFloat32LE(samples, *sampleRate, 2)
		if err := os.WriteFile(*outPath, wav, 0o644); err != nil {
			logger.Fatal("write wav", "error", err)
		}
		logger.Info("rendered", "path", *outPath, "seconds", *duration+*tail)
		return
	}

	pl.Play()
	time.Sleep(time.Duration(*duration * float64(time.Second)))
	pl.NoteOff(uint8(*note))
	time.Sleep(time.Duration(*tail * float64(time.Second)))
	if err := pl.Stop(); err != nil {
		logger.Warn("stop", "error", err)
	}
}
