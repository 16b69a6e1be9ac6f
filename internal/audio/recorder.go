// Package audio records buzzer tones as a square wave into WAV files.
package audio

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/log"
)

// Output format of the recording.
const (
	SampleRate = 44100
	BitDepth   = 16
	Channels   = 1

	// ToneFrequency is the pitch of the buzzer in Hz.
	ToneFrequency = 500
	// Amplitude of the square wave, a quarter of the 16 bit range.
	Amplitude = 0x2000

	pcmFormat = 1
)

// Recorder writes tones to a WAV stream.
type Recorder struct {
	logger  *log.Logger
	encoder *wav.Encoder
	phase   int // sample position within the square wave, continues across tones
	samples int
	tones   int
}

// NewRecorder returns a recorder writing to w. The WAV header is finalized
// by Close.
func NewRecorder(logger *log.Logger, w io.WriteSeeker) *Recorder {
	return &Recorder{
		logger:  logger,
		encoder: wav.NewEncoder(w, SampleRate, BitDepth, Channels, pcmFormat),
	}
}

// Record appends the square wave of a tone. The length is taken from the
// timer periods of the tone, the duration is only used for tones without
// a period count.
func (r *Recorder) Record(tone scheduler.Tone) error {
	count := PeriodSamples(tone.Periods)
	if count == 0 {
		count = SampleCount(tone.Duration)
	}
	if count == 0 {
		return nil
	}

	data := make([]int, count)
	for i := range data {
		data[i] = squareWave(r.phase)
		r.phase++
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
	if err := r.encoder.Write(buf); err != nil {
		return fmt.Errorf("writing tone samples: %w", err)
	}
	r.samples += count
	r.tones++
	return nil
}

// Run records all tones received until the channel is closed.
func (r *Recorder) Run(tones <-chan scheduler.Tone) error {
	for tone := range tones {
		if err := r.Record(tone); err != nil {
			return err
		}
		r.logger.Debug("Recorded tone", log.String("duration", tone.Duration.String()))
	}
	return nil
}

// Samples returns the number of samples recorded.
func (r *Recorder) Samples() int {
	return r.samples
}

// Tones returns the number of tones recorded.
func (r *Recorder) Tones() int {
	return r.tones
}

// Close finalizes the WAV header. It does not close the underlying writer.
func (r *Recorder) Close() error {
	if err := r.encoder.Close(); err != nil {
		return fmt.Errorf("finalizing wav stream: %w", err)
	}
	return nil
}

// PeriodSamples returns the number of samples covering the given number of
// timer periods.
func PeriodSamples(periods uint8) int {
	return int(periods) * SampleRate / scheduler.TimerFrequency
}

// SampleCount returns the number of samples covering the duration, rounded
// to the nearest sample.
func SampleCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((int64(d)*SampleRate + int64(time.Second)/2) / int64(time.Second))
}

func squareWave(phase int) int {
	// half periods alternate between high and low
	if (phase*2*ToneFrequency/SampleRate)%2 == 0 {
		return Amplitude
	}
	return -Amplitude
}
