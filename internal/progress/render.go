package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"rowpool/internal/logging"
)

const (
	ansiClearLine = "\x1b[2K\x1b[0G"
	barResolution = 10000
)

// NopRenderer discards samples.
type NopRenderer struct{}

func (NopRenderer) Render(float64) {}

func (NopRenderer) Clear() {}

// PercentRenderer overwrites one terminal line with "NN.NN%".
type PercentRenderer struct {
	w io.Writer
}

// NewPercentRenderer writes in-place percentages to w.
func NewPercentRenderer(w io.Writer) *PercentRenderer {
	return &PercentRenderer{w: w}
}

func (r *PercentRenderer) Render(percent float64) {
	fmt.Fprintf(r.w, "%s%.2f%%", ansiClearLine, percent)
}

func (r *PercentRenderer) Clear() {
	fmt.Fprint(r.w, ansiClearLine)
}

// BarRenderer draws a progress bar.
type BarRenderer struct {
	bar *progressbar.ProgressBar
}

// NewBarRenderer builds a bar that writes to w with the given description.
func NewBarRenderer(w io.Writer, description string) *BarRenderer {
	bar := progressbar.NewOptions(barResolution,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(30),
	)
	return &BarRenderer{bar: bar}
}

func (r *BarRenderer) Render(percent float64) {
	_ = r.bar.Set(int(percent * barResolution / 100))
}

func (r *BarRenderer) Clear() {
	_ = r.bar.Clear()
}

// LogRenderer emits bucketed progress lines for non-interactive output.
type LogRenderer struct {
	logger  *slog.Logger
	label   string
	sampler *logging.ProgressSampler
}

// NewLogRenderer logs progress every bucket percent.
func NewLogRenderer(logger *slog.Logger, label string, bucket float64) *LogRenderer {
	return &LogRenderer{
		logger:  logging.NewComponentLogger(logger, "progress"),
		label:   label,
		sampler: logging.NewProgressSampler(bucket),
	}
}

func (r *LogRenderer) Render(percent float64) {
	if !r.sampler.ShouldLog(percent, r.label) {
		return
	}
	r.logger.Info("progress",
		logging.String("label", r.label),
		logging.Float64("percent", roundPercent(percent)),
	)
}

func (r *LogRenderer) Clear() {
	r.sampler.Reset()
}

func roundPercent(p float64) float64 {
	return float64(int(p*100+0.5)) / 100
}

// Recorder keeps every sample; useful for callers that want to inspect the
// sequence after a run.
type Recorder struct {
	mu      sync.Mutex
	samples []float64
	cleared int
}

func (r *Recorder) Render(percent float64) {
	r.mu.Lock()
	r.samples = append(r.samples, percent)
	r.mu.Unlock()
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	r.cleared++
	r.mu.Unlock()
}

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.samples...)
}

// Cleared returns how many times Clear was called.
func (r *Recorder) Cleared() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleared
}

// ForOutput picks a renderer by name. "auto" draws in place when w is a
// terminal and falls back to bucketed log lines otherwise.
func ForOutput(name string, w io.Writer, logger *slog.Logger, label string) (Renderer, error) {
	switch name {
	case "", "auto":
		if IsTerminal(w) {
			return NewPercentRenderer(w), nil
		}
		return NewLogRenderer(logger, label, 10), nil
	case "percent":
		return NewPercentRenderer(w), nil
	case "bar":
		return NewBarRenderer(w, label), nil
	case "log":
		return NewLogRenderer(logger, label, 10), nil
	case "none":
		return NopRenderer{}, nil
	default:
		return nil, fmt.Errorf("progress renderer: unsupported value %q", name)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
