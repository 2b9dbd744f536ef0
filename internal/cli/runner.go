package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"ecg-converter/internal/config"
	"ecg-converter/internal/converter"
	"ecg-converter/internal/demographics"
	"ecg-converter/internal/pipeline"
	"ecg-converter/internal/progress"
)

// Options holds CLI configuration options
type Options struct {
	Config *config.Config
	Log    zerolog.Logger
	Out    io.Writer // defaults to stdout
}

// Run executes one conversion batch and prints progress and a summary.
func Run(opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("configuration is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	cfg := opts.Config

	adapter := converter.New(cfg.Tool, opts.Log)
	printHeader(out, cfg, adapter.ToolAvailable())

	errLog, err := progress.NewErrorLogger(cfg.ErrorLog)
	if err != nil {
		return err
	}
	defer errLog.Close()

	p := pipeline.New(adapter, demographics.New(opts.Log), opts.Log).WithErrorLogger(errLog)

	pb := newProgressBar(out, 50)
	fmt.Fprintln(out)

	stats, err := p.Run(cfg.PipelineConfig(), pb.advance)
	if pb.percent > 0 {
		pb.finish()
	}

	switch {
	case errors.Is(err, pipeline.ErrDirectoriesUnset):
		fmt.Fprintln(out, "Warning: both an input and an output directory are required.")
		return err
	case errors.Is(err, pipeline.ErrEmptyInput):
		fmt.Fprintf(out, "No files found in %s\n", cfg.Input)
		return nil
	case err != nil:
		return fmt.Errorf("processing failed: %w", err)
	}

	printSummary(out, stats, cfg, errLog)
	return nil
}

// printHeader prints the CLI header with configuration
func printHeader(out io.Writer, cfg *config.Config, toolFound bool) {
	fmt.Fprintln(out, "ECG Converter")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Input:     %s\n", cfg.Input)
	fmt.Fprintf(out, "Output:    %s\n", cfg.Output)
	fmt.Fprintf(out, "Format:    %s\n", cfg.TargetFormat())
	fmt.Fprintf(out, "Tool:      %s\n", cfg.Tool)

	var options []string
	if cfg.Anonymize {
		options = append(options, "Anonymize")
	}
	if cfg.SkipInvalid {
		options = append(options, "Skip invalid records")
	}
	if len(options) > 0 {
		fmt.Fprintf(out, "Options:   %s\n", strings.Join(options, ", "))
	}

	if !toolFound {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Warning: %s was not found in PATH.\n", cfg.Tool)
		fmt.Fprintln(out, "         Every conversion will fail until it is installed.")
	}
}

// printSummary prints the processing summary
func printSummary(out io.Writer, stats *pipeline.Stats, cfg *config.Config, errLog *progress.ErrorLogger) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Complete! %d converted, %d failed, %d skipped\n",
		stats.Processed(), stats.Failed, stats.Skipped)
	if cfg.Anonymize {
		fmt.Fprintf(out, "Anonymized: %d records\n", stats.Anonymized)
		fmt.Fprintf(out, "Key file:  %s\n", stats.KeyFile)
	}
	fmt.Fprintf(out, "Output:    %s\n", cfg.Output)
	if errLog.ErrorCount() > 0 {
		fmt.Fprintf(out, "Errors:    %s\n", errLog.Summary())
	}
}

// progressBar represents a terminal progress bar
type progressBar struct {
	out     io.Writer
	width   int
	percent float64
}

// newProgressBar creates a new progress bar with specified width
func newProgressBar(out io.Writer, width int) *progressBar {
	return &progressBar{out: out, width: width}
}

// advance adds the event's share to the bar and redraws it.
func (pb *progressBar) advance(ev pipeline.Event) {
	pb.percent += ev.Increment
	if pb.percent > 100 {
		pb.percent = 100
	}
	pb.draw(fmt.Sprintf("%-9s %s", ev.Pass, ev.File))
}

// finish draws the bar at 100% and ends the line. Increments are floats, so
// the running total can stop just short of it.
func (pb *progressBar) finish() {
	pb.percent = 100
	pb.draw("done")
	fmt.Fprintln(pb.out)
}

func (pb *progressBar) draw(label string) {
	filled := int(pb.percent / 100 * float64(pb.width))
	if filled > pb.width {
		filled = pb.width
	}

	bar := strings.Repeat("#", filled) + strings.Repeat("-", pb.width-filled)
	fmt.Fprintf(pb.out, "\r[%s] %3.0f%%  %s\x1b[K", bar, pb.percent, label)
}
