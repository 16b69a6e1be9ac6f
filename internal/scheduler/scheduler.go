// Package scheduler drives the instruction cycle of the machine and applies
// the 60Hz timer and frame policy.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrogolib/log"
)

// TimerFrequency is the rate in Hz that the delay and sound timers count down at.
const TimerFrequency = 60

// Machine is the instruction engine driven by the scheduler.
type Machine interface {
	Step() error
	TickTimers() uint8
	FlushFrame() (cpu.Frame, bool)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by the monotonic system time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Tone is a request to play the buzzer.
type Tone struct {
	Periods  uint8         // timer periods that the sound timer was set to
	Duration time.Duration // playback length
}

// Config defines the timing of the scheduler.
type Config struct {
	CycleInterval time.Duration // interval between cycle batches in Run
	CyclesPerTick int           // instructions executed per cycle batch
	TimerPeriod   time.Duration // minimum time between two timer actions
	FrameQueue    int           // capacity of the frame channel
	ToneQueue     int           // capacity of the tone channel
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		CycleInterval: 10 * time.Millisecond,
		CyclesPerTick: 1,
		TimerPeriod:   20 * time.Millisecond,
		FrameQueue:    4,
		ToneQueue:     16,
	}
}

// Scheduler executes machine cycles and publishes frames and tones.
type Scheduler struct {
	machine Machine
	clock   Clock
	logger  *log.Logger
	cfg     Config

	lastTimer time.Time
	frames    chan cpu.Frame
	tones     chan Tone

	droppedFrames uint64
	droppedTones  uint64
}

// New returns a scheduler for the given machine.
func New(logger *log.Logger, machine Machine, clock Clock, cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = def.CycleInterval
	}
	if cfg.CyclesPerTick < 1 {
		cfg.CyclesPerTick = 1
	}
	if cfg.TimerPeriod <= 0 {
		cfg.TimerPeriod = def.TimerPeriod
	}
	if cfg.FrameQueue <= 0 {
		cfg.FrameQueue = def.FrameQueue
	}
	if cfg.ToneQueue <= 0 {
		cfg.ToneQueue = def.ToneQueue
	}

	return &Scheduler{
		machine:   machine,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
		lastTimer: clock.Now(),
		frames:    make(chan cpu.Frame, cfg.FrameQueue),
		tones:     make(chan Tone, cfg.ToneQueue),
	}
}

// Frames returns the channel that display snapshots are published on.
// The channel is closed when Run returns.
func (s *Scheduler) Frames() <-chan cpu.Frame {
	return s.frames
}

// Tones returns the channel that buzzer requests are published on.
// The channel is closed when Run returns.
func (s *Scheduler) Tones() <-chan Tone {
	return s.tones
}

// Cycle executes one instruction and applies the timer policy if at least
// one timer period elapsed since the last timer action.
func (s *Scheduler) Cycle() error {
	if err := s.machine.Step(); err != nil {
		return fmt.Errorf("executing cycle: %w", err)
	}
	s.tick()
	return nil
}

// Run executes cycles at the configured interval until the context is
// cancelled or a cycle fails. It must only be called once.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.frames)
	defer close(s.tones)

	ticker := time.NewTicker(s.cfg.CycleInterval)
	defer ticker.Stop()

	s.logger.Debug("Scheduler started",
		log.String("interval", s.cfg.CycleInterval.String()),
		log.Int("cycles_per_tick", s.cfg.CyclesPerTick))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Scheduler stopped",
				log.Int("dropped_frames", int(s.droppedFrames)),
				log.Int("dropped_tones", int(s.droppedTones)))
			return ctx.Err()

		case <-ticker.C:
			for range s.cfg.CyclesPerTick {
				if err := s.Cycle(); err != nil {
					return err
				}
			}
		}
	}
}

// tick decrements the timers, publishes a tone for a consumed sound timer
// and publishes the display if it changed.
func (s *Scheduler) tick() {
	now := s.clock.Now()
	if now.Sub(s.lastTimer) < s.cfg.TimerPeriod {
		return
	}
	s.lastTimer = now

	if periods := s.machine.TickTimers(); periods > 0 {
		s.publishTone(Tone{
			Periods:  periods,
			Duration: time.Duration(periods) * time.Second / TimerFrequency,
		})
	}

	if frame, ok := s.machine.FlushFrame(); ok {
		s.publishFrame(frame)
	}
}

func (s *Scheduler) publishFrame(frame cpu.Frame) {
	select {
	case s.frames <- frame:
	default:
		s.droppedFrames++
		s.logger.Debug("Dropping frame, consumer is not keeping up")
	}
}

func (s *Scheduler) publishTone(tone Tone) {
	select {
	case s.tones <- tone:
	default:
		s.droppedTones++
		s.logger.Debug("Dropping tone, consumer is not keeping up",
			log.String("duration", tone.Duration.String()))
	}
}
