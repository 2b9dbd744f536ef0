// Package pipeline runs batch conversions, optionally staging every record
// through an anonymization pass.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ecg-converter/internal/auditkey"
	"ecg-converter/internal/converter"
	"ecg-converter/internal/demographics"
	"ecg-converter/internal/ecg"
	"ecg-converter/internal/progress"
	"ecg-converter/internal/workspace"
)

var (
	// ErrDirectoriesUnset is returned when the input or output directory is empty.
	ErrDirectoriesUnset = errors.New("input and output directories must be set")
	// ErrEmptyInput is returned when the input directory holds no files.
	// Nothing is written in that case.
	ErrEmptyInput = errors.New("no files found")
	// ErrUnexpectedIntermediate is returned when the workspace holds a file
	// that the staging pass of this run did not produce.
	ErrUnexpectedIntermediate = errors.New("unexpected file in workspace")
	// ErrDuplicateIntermediate marks an input whose staged name collides with
	// an earlier input of the same run.
	ErrDuplicateIntermediate = errors.New("intermediate name already used by another input")
)

// Pass identifies a stage of the pipeline
type Pass string

const (
	PassConvert   Pass = "convert"   // single pass, input -> output
	PassStage     Pass = "stage"     // input -> workspace as MUSE-XML
	PassAnonymize Pass = "anonymize" // workspace records de-identified in place
	PassExport    Pass = "export"    // workspace -> output in the target format
)

// Status of a file after a pass
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Event is reported once per file after its operation completes.
type Event struct {
	Pass      Pass
	File      string
	Status    Status
	Increment float64 // share of the whole run, in percent
}

// ProgressCallback receives events synchronously, in processing order.
type ProgressCallback func(Event)

// Config describes one run.
type Config struct {
	InputDir  string
	OutputDir string
	Format    ecg.TargetFormat
	Anonymize bool
	// SkipInvalidRecords counts records with missing demographic fields or
	// malformed XML as failed files instead of aborting the run.
	SkipInvalidRecords bool
}

// Stats holds processing statistics
type Stats struct {
	Files      int
	Converted  int
	Skipped    int
	Failed     int
	Anonymized int
	KeyFile    string
}

// Processed returns the number of files written to the output directory.
func (s *Stats) Processed() int {
	return s.Converted
}

// Converter is the conversion step used by the pipeline.
type Converter interface {
	Convert(src ecg.Convertible, format ecg.TargetFormat, outDir string) converter.Result
}

// Anonymizer de-identifies a staged record in place.
type Anonymizer interface {
	AnonymizeFile(path string) (demographics.Record, error)
}

// Pipeline sequences conversion and anonymization over a directory.
type Pipeline struct {
	converter  Converter
	anonymizer Anonymizer
	errors     *progress.ErrorLogger
	log        zerolog.Logger
}

// New creates a pipeline.
func New(conv Converter, anon Anonymizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		converter:  conv,
		anonymizer: anon,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// WithErrorLogger records every per-file failure in l.
func (p *Pipeline) WithErrorLogger(l *progress.ErrorLogger) *Pipeline {
	p.errors = l
	return p
}

// Run processes every regular file directly inside cfg.InputDir.
//
// Files are handled one at a time in name order. Per-file conversion
// failures are counted and the batch continues. Workspace errors, audit key
// errors and (unless cfg.SkipInvalidRecords is set) invalid records abort
// the run. Runs must not share an output directory concurrently.
func (p *Pipeline) Run(cfg Config, progressCb ProgressCallback) (*Stats, error) {
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return nil, ErrDirectoriesUnset
	}
	if progressCb == nil {
		progressCb = func(Event) {}
	}

	log := p.log.With().Str("run_id", uuid.NewString()).Logger()

	files, err := ecg.ListFiles(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Files: len(files)}
	if len(files) == 0 {
		log.Info().Str("input", cfg.InputDir).Msg("no files found")
		return stats, ErrEmptyInput
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return stats, fmt.Errorf("could not create output directory: %w", err)
	}

	log.Info().
		Int("files", len(files)).
		Str("format", cfg.Format.Name).
		Bool("anonymize", cfg.Anonymize).
		Msg("starting run")

	if cfg.Anonymize {
		err = p.runStaged(cfg, files, stats, progressCb, log)
	} else {
		p.runSingle(cfg, files, stats, progressCb)
	}
	if err != nil {
		log.Error().Err(err).Msg("run aborted")
		return stats, err
	}

	log.Info().
		Int("processed", stats.Processed()).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("anonymized", stats.Anonymized).
		Msg("run complete")
	return stats, nil
}

func (p *Pipeline) runSingle(cfg Config, files []ecg.SourceFile, stats *Stats, progressCb ProgressCallback) {
	inc := 100 / float64(len(files))
	for _, src := range files {
		res := p.converter.Convert(src, cfg.Format, cfg.OutputDir)
		status := p.tally(stats, PassConvert, res)
		if status == StatusSuccess {
			stats.Converted++
		}
		progressCb(Event{Pass: PassConvert, File: src.Name, Status: status, Increment: inc})
	}
}

func (p *Pipeline) runStaged(cfg Config, files []ecg.SourceFile, stats *Stats, progressCb ProgressCallback, log zerolog.Logger) (err error) {
	ws, err := workspace.Create(cfg.OutputDir)
	if err != nil {
		return err
	}

	destroyed := false
	defer func() {
		if destroyed {
			return
		}
		if derr := workspace.Destroy(ws); derr != nil {
			log.Error().Err(derr).Str("workspace", ws).Msg("could not remove workspace")
		}
	}()

	inc := 100 / float64(3*len(files))

	// Pass 1: stage every input as MUSE-XML.
	produced := make(map[string]string) // staged name -> input name
	for _, src := range files {
		if src.Supported() {
			name := filepath.Base(src.Request(ecg.IntermediateFormat, ws).Output)
			if owner, dup := produced[name]; dup {
				p.fail(stats, PassStage, src.Path(), fmt.Errorf("%w: %s (from %s)", ErrDuplicateIntermediate, name, owner))
				progressCb(Event{Pass: PassStage, File: src.Name, Status: StatusFailed, Increment: inc})
				continue
			}
		}

		res := p.converter.Convert(src, ecg.IntermediateFormat, ws)
		status := p.tally(stats, PassStage, res)
		switch status {
		case StatusSuccess:
			produced[filepath.Base(res.Request.Output)] = src.Name
		case StatusFailed:
			// a failed converter may leave a partial file behind
			if rmErr := os.Remove(res.Request.Output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return fmt.Errorf("%w: could not remove partial output %s: %v", workspace.ErrIO, res.Request.Output, rmErr)
			}
		}
		progressCb(Event{Pass: PassStage, File: src.Name, Status: status, Increment: inc})
	}

	// Pass 2: anonymize what actually landed in the workspace.
	staged, err := ecg.ListFiles(ws)
	if err != nil {
		return fmt.Errorf("%w: %v", workspace.ErrIO, err)
	}

	present := make(map[string]bool, len(staged))
	for _, f := range staged {
		if _, ok := produced[f.Name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnexpectedIntermediate, f.Path())
		}
		present[f.Name] = true
	}
	missing := make([]string, 0)
	for name := range produced {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		p.fail(stats, PassStage, produced[name], fmt.Errorf("converter reported success but %s was not produced", name))
	}

	recorder := auditkey.NewRecorder()
	var anonymized []ecg.SourceFile
	for _, f := range staged {
		rec, aerr := p.anonymizer.AnonymizeFile(f.Path())
		if aerr != nil {
			invalid := errors.Is(aerr, demographics.ErrFieldNotFound) || errors.Is(aerr, demographics.ErrMalformedDocument)
			if !invalid || !cfg.SkipInvalidRecords {
				return fmt.Errorf("could not anonymize %s: %w", produced[f.Name], aerr)
			}
			p.fail(stats, PassAnonymize, f.Path(), aerr)
			progressCb(Event{Pass: PassAnonymize, File: f.Name, Status: StatusFailed, Increment: inc})
			continue
		}

		recorder.Append(rec)
		anonymized = append(anonymized, f)
		progressCb(Event{Pass: PassAnonymize, File: f.Name, Status: StatusSuccess, Increment: inc})
	}
	stats.Anonymized = recorder.Len()

	// Pass 3: export anonymized records in the requested format.
	for _, f := range anonymized {
		res := p.converter.Convert(f, cfg.Format, cfg.OutputDir)
		status := p.tally(stats, PassExport, res)
		if status == StatusSuccess {
			stats.Converted++
		}
		progressCb(Event{Pass: PassExport, File: f.Name, Status: status, Increment: inc})
	}

	destroyed = true
	destroyErr := workspace.Destroy(ws)

	keyFile, err := recorder.Persist(cfg.OutputDir)
	if err != nil {
		return err
	}
	stats.KeyFile = keyFile
	log.Info().Str("key_file", keyFile).Int("records", recorder.Len()).Msg("audit key written")

	return destroyErr
}

// tally counts a converter result and maps it to a status. Successes are
// left to the caller because only final conversions count as processed.
func (p *Pipeline) tally(stats *Stats, pass Pass, res converter.Result) Status {
	switch res.Outcome {
	case converter.OutcomeSuccess:
		return StatusSuccess
	case converter.OutcomeSkipped:
		stats.Skipped++
		return StatusSkipped
	default:
		p.fail(stats, pass, res.Request.Source, res.Err)
		return StatusFailed
	}
}

func (p *Pipeline) fail(stats *Stats, pass Pass, file string, err error) {
	stats.Failed++
	p.log.Warn().Err(err).Str("pass", string(pass)).Str("file", filepath.Base(file)).Msg("file failed")
	if p.errors != nil {
		p.errors.Log(string(pass), file, err.Error())
	}
}
