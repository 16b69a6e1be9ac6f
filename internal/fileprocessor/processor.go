// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow, either writing
// a disassembly listing or running the program image.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	p := pipeline.New(logger)

	image, err := p.Load(opts)
	if err != nil {
		return err
	}

	if opts.Disasm {
		return writeListing(p, opts, image)
	}

	session, cleanup, err := createSession(logger, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := p.Run(ctx, image, opts, session)
	logger.Debug("Execution finished",
		log.Int("cycles", int(result.Cycles)),
		log.Int("frames", result.Frames),
		log.Int("tones", result.Tones))
	if err != nil {
		return fmt.Errorf("executing %s: %w", opts.Input, err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Debug("Build", log.String("date", date))
	}
}

func writeListing(p *pipeline.Pipeline, opts options.Program, image *loader.Image) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	if err := p.Disassemble(image, writer); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// createSession attaches the terminal and the tone recording to a run. The
// returned cleanup function restores the terminal and closes all files, on
// error everything is already released.
func createSession(logger *log.Logger, opts options.Program) (pipeline.Session, func(), error) {
	var session pipeline.Session
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if opts.Wav != "" {
		file, err := os.Create(opts.Wav)
		if err != nil {
			return session, nil, fmt.Errorf("creating wav file %s: %w", opts.Wav, err)
		}
		cleanups = append(cleanups, func() { _ = file.Close() })
		session.Wav = file
	}

	if opts.Headless {
		return session, cleanup, nil
	}

	host := terminal.NewHost(os.Stdin)
	if err := host.Start(); err != nil {
		if !errors.Is(err, terminal.ErrNotTerminal) {
			cleanup()
			return session, nil, fmt.Errorf("starting terminal: %w", err)
		}
		logger.Warn("Standard input is not a terminal, running headless")
		return session, cleanup, nil
	}

	if !terminal.FitsDisplay(os.Stdout) {
		logger.Warn("Terminal is smaller than the display")
	}

	renderer := terminal.NewRenderer(os.Stdout)
	cleanups = append(cleanups, func() {
		_ = renderer.Close()
		_ = host.Stop()
	})
	session.Display = renderer
	session.Keys = os.Stdin
	return session, cleanup, nil
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
