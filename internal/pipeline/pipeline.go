// Package pipeline orchestrates loading, listing and running program images.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/random"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// Display receives the published frames of a run.
type Display interface {
	Render(frame cpu.Frame) error
}

// Session holds the optional host attachments of a run.
type Session struct {
	Display Display        // nil discards frames
	Keys    io.Reader      // terminal keystrokes, nil runs without input
	Wav     io.WriteSeeker // tone recording, nil discards tones
	Random  random.Source  // nil uses a randomly seeded generator
}

// Result summarizes a finished run.
type Result struct {
	Cycles uint64
	Frames int
	Tones  int
}

// Pipeline orchestrates the complete workflow of a program image.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Load detects the system of the input file and reads the program image.
func (p *Pipeline) Load(opts options.Program) (*loader.Image, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	image, err := p.loader.Load(opts.Input, system)
	if err != nil {
		return nil, fmt.Errorf("loading program image: %w", err)
	}

	p.printInfo(opts, image)
	return image, nil
}

// Disassemble writes the listing of the program image.
func (p *Pipeline) Disassemble(image *loader.Image, writer io.Writer) error {
	if err := disasm.Listing(writer, image.Data, memory.ProgramStart); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// Run executes the program image until the context is cancelled, the frame
// limit of the options is reached or the machine fails. Reaching the frame
// limit is not an error.
func (p *Pipeline) Run(ctx context.Context, image *loader.Image, opts options.Program, session Session) (Result, error) {
	var result Result

	rng := session.Random
	if rng == nil {
		rng = random.New()
	}
	machine := cpu.New(p.logger, memory.New(), rng, opts.CPU())
	if err := machine.Load(bytes.NewReader(image.Data)); err != nil {
		return result, fmt.Errorf("loading program image: %w", err)
	}

	sched := scheduler.New(p.logger, machine, scheduler.SystemClock{}, opts.Scheduler())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var limitReached atomic.Bool
	g.Go(func() error {
		return sched.Run(ctx)
	})
	g.Go(func() error {
		frames, err := p.consumeFrames(sched.Frames(), session.Display, opts.Frames, func() {
			limitReached.Store(true)
			cancel()
		})
		result.Frames = frames
		return err
	})
	g.Go(func() error {
		tones, err := p.consumeTones(sched.Tones(), session.Wav)
		result.Tones = tones
		return err
	})

	if session.Keys != nil {
		input := terminal.NewInput(p.logger, machine, terminal.DefaultHoldDuration, cancel)
		defer input.Release()

		// a blocking terminal read can not be interrupted, the reader is left
		// behind when the run ends
		go func() {
			if err := input.Read(session.Keys); err != nil {
				p.logger.Debug("Reading keys stopped", log.Err(err))
			}
		}()
	}

	err := g.Wait()
	result.Cycles = machine.Cycles()
	if limitReached.Load() && errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return result, fmt.Errorf("running program: %w", err)
	}
	return result, nil
}

// consumeFrames forwards frames to the display until the channel is closed.
// The stop function is called once the frame limit is reached, a limit of 0
// disables it.
func (p *Pipeline) consumeFrames(frames <-chan cpu.Frame, display Display, limit int, stop func()) (int, error) {
	count := 0
	for frame := range frames {
		if limit > 0 && count >= limit {
			continue
		}

		count++
		if display != nil {
			if err := display.Render(frame); err != nil {
				return count, fmt.Errorf("rendering frame: %w", err)
			}
		}
		if count == limit {
			p.logger.Debug("Frame limit reached", log.Int("frames", count))
			stop()
		}
	}
	return count, nil
}

// consumeTones records tones until the channel is closed.
func (p *Pipeline) consumeTones(tones <-chan scheduler.Tone, wav io.WriteSeeker) (int, error) {
	if wav == nil {
		count := 0
		for tone := range tones {
			count++
			p.logger.Debug("Tone", log.Uint8("periods", tone.Periods))
		}
		return count, nil
	}

	rec := audio.NewRecorder(p.logger, wav)
	err := rec.Run(tones)
	if closeErr := rec.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return rec.Tones(), fmt.Errorf("recording tones: %w", err)
	}
	return rec.Tones(), nil
}

// printInfo prints information about the program image being processed.
func (p *Pipeline) printInfo(opts options.Program, image *loader.Image) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing CHIP-8 program",
		log.String("file", image.Path),
		log.Stringer("system", image.System),
		log.Int("size", len(image.Data)),
	)
}
