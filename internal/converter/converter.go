// Package converter invokes the external waveform format converter.
package converter

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"ecg-converter/internal/ecg"
)

// DefaultTool is the converter executable used when none is configured.
const DefaultTool = "ECGTool"

var (
	// ErrUnsupportedExtension marks a file the converter was never asked to handle.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrExternalTool marks a conversion that the external tool did not complete.
	ErrExternalTool = errors.New("external converter failed")
)

// Outcome is the result of one conversion attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Result describes a single conversion.
type Result struct {
	Outcome Outcome
	Request ecg.ConversionRequest
	Err     error
}

// Runner starts a process and waits for it. A non-nil error means the process
// could not be started or exited non-zero.
type Runner interface {
	Run(name string, args []string) ([]byte, error)
}

// execRunner is the production runner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(name string, args []string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Adapter converts records by shelling out to the converter tool.
// There is no timeout: a hung converter blocks the caller until it exits.
type Adapter struct {
	tool   string
	runner Runner
	log    zerolog.Logger
}

// New creates an adapter that runs tool with os/exec.
func New(tool string, log zerolog.Logger) *Adapter {
	return NewWithRunner(tool, execRunner{}, log)
}

// NewWithRunner creates an adapter with a custom process runner.
func NewWithRunner(tool string, runner Runner, log zerolog.Logger) *Adapter {
	if tool == "" {
		tool = DefaultTool
	}
	return &Adapter{
		tool:   tool,
		runner: runner,
		log:    log.With().Str("component", "converter").Logger(),
	}
}

// Tool returns the converter executable name.
func (a *Adapter) Tool() string {
	return a.tool
}

// Convert turns src into format, writing outDir/<base><format ext>.
// On failure the output file may or may not exist.
func (a *Adapter) Convert(src ecg.Convertible, format ecg.TargetFormat, outDir string) Result {
	req := src.Request(format, outDir)

	if !src.Supported() {
		a.log.Warn().Str("file", req.Source).Msg("skipping file with unsupported extension")
		return Result{
			Outcome: OutcomeSkipped,
			Request: req,
			Err:     fmt.Errorf("%w: %s", ErrUnsupportedExtension, req.Source),
		}
	}

	args := req.Args(a.tool)
	output, err := a.runner.Run(args[0], args[1:])
	if err != nil {
		ev := a.log.Error().Err(err).Str("file", req.Source).Str("format", req.FormatName)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ev = ev.Int("exit_code", exitErr.ExitCode())
		}
		ev.Msg("conversion failed")
		if len(output) > 0 {
			a.log.Debug().Str("file", req.Source).Str("output", strings.TrimSpace(string(output))).Msg("converter output")
		}
		return Result{
			Outcome: OutcomeFailed,
			Request: req,
			Err:     fmt.Errorf("%w: %s: %v", ErrExternalTool, req.Source, err),
		}
	}

	a.log.Debug().Str("file", req.Source).Str("output", req.Output).Msg("converted")
	return Result{Outcome: OutcomeSuccess, Request: req}
}

// ToolAvailable reports whether the converter can be found on PATH.
func (a *Adapter) ToolAvailable() bool {
	return CheckToolInstalled(a.tool)
}

// CheckToolInstalled reports whether tool resolves to an executable.
func CheckToolInstalled(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}
