package gui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"ecg-converter/internal/auditkey"
	"ecg-converter/internal/ecg"
	"ecg-converter/internal/pipeline"
)

// StepBuilder handles creating UI content for each wizard step
type StepBuilder struct {
	window   fyne.Window
	wizard   *Wizard
	pipeline *pipeline.Pipeline
	defaults pipeline.Config

	// Step 1: folders
	inputEntry     *widget.Entry
	outputEntry    *widget.Entry
	fileCountLabel *widget.Label

	// Step 2: options
	formatSelect     *widget.Select
	anonymizeCheck   *widget.Check
	skipInvalidCheck *widget.Check

	// Step 3: convert
	progress     *widget.ProgressBar
	statusLabel  *widget.Label
	currentLabel *widget.Label
	statsLabel   *widget.Label
	summaryLabel *widget.Label
	processing   bool
	processingMu sync.Mutex
}

// NewStepBuilder creates a new step builder. defaults pre-fill the form.
func NewStepBuilder(window fyne.Window, wizard *Wizard, p *pipeline.Pipeline, defaults pipeline.Config) *StepBuilder {
	return &StepBuilder{
		window:   window,
		wizard:   wizard,
		pipeline: p,
		defaults: defaults,
	}
}

func stepTitle(text string) *canvas.Text {
	t := canvas.NewText(text, ColorTextPrimary)
	t.TextSize = 18
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

func (s *StepBuilder) folderRow(entry *widget.Entry) fyne.CanvasObject {
	browse := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			entry.SetText(uri.Path())
		}, s.window)
	})
	return container.NewBorder(nil, nil, nil, browse, entry)
}

// BuildFolders creates the folder selection step
func (s *StepBuilder) BuildFolders() fyne.CanvasObject {
	s.fileCountLabel = widget.NewLabel("")
	s.fileCountLabel.Wrapping = fyne.TextWrapWord

	s.inputEntry = widget.NewEntry()
	s.inputEntry.SetPlaceHolder("/path/to/ecg/records")
	s.inputEntry.SetText(s.defaults.InputDir)
	s.inputEntry.OnChanged = func(string) { s.updateFileCount() }
	s.updateFileCount()

	s.outputEntry = widget.NewEntry()
	s.outputEntry.SetPlaceHolder("/path/to/output")
	s.outputEntry.SetText(s.defaults.OutputDir)

	content := container.NewVBox(
		stepTitle("Select Folders"),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Input Folder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		s.folderRow(s.inputEntry),
		s.fileCountLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Output Folder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		s.folderRow(s.outputEntry),
	)
	return container.NewPadded(content)
}

// BuildOptions creates the format and anonymization step
func (s *StepBuilder) BuildOptions() fyne.CanvasObject {
	s.formatSelect = widget.NewSelect(ecg.FormatNames(), nil)
	format := s.defaults.Format
	if format.Name == "" {
		format = ecg.FormatDICOM
	}
	s.formatSelect.SetSelected(format.Name)

	keyNote := widget.NewLabel(fmt.Sprintf(
		"Patient ID, birth date, gender, race and names are removed. The original and pseudonymized IDs are written to %s in the output folder. Keep that file private.",
		auditkey.FileName))
	keyNote.Wrapping = fyne.TextWrapWord

	s.skipInvalidCheck = widget.NewCheck("Skip records with missing demographic fields", nil)
	s.skipInvalidCheck.SetChecked(s.defaults.SkipInvalidRecords)

	s.anonymizeCheck = widget.NewCheck("Anonymize before converting", func(checked bool) {
		if checked {
			keyNote.Show()
			s.skipInvalidCheck.Show()
		} else {
			keyNote.Hide()
			s.skipInvalidCheck.Hide()
		}
	})
	s.anonymizeCheck.SetChecked(s.defaults.Anonymize)
	if !s.defaults.Anonymize {
		keyNote.Hide()
		s.skipInvalidCheck.Hide()
	}

	content := container.NewVBox(
		stepTitle("Options"),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Target Format", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		s.formatSelect,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Anonymization", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		s.anonymizeCheck,
		s.skipInvalidCheck,
		keyNote,
	)
	return container.NewPadded(content)
}

// BuildConvert creates the progress step
func (s *StepBuilder) BuildConvert() fyne.CanvasObject {
	s.progress = widget.NewProgressBar()
	s.progress.Max = 100

	s.statusLabel = widget.NewLabel("Ready to convert")
	s.currentLabel = widget.NewLabel("")
	s.currentLabel.Wrapping = fyne.TextWrapWord
	s.statsLabel = widget.NewLabel("")
	s.summaryLabel = widget.NewLabel("")
	s.summaryLabel.Wrapping = fyne.TextWrapWord

	header := container.NewVBox(
		stepTitle("Converting"),
		widget.NewSeparator(),
		s.progress,
		s.statusLabel,
		s.currentLabel,
		widget.NewSeparator(),
	)

	scroll := container.NewVScroll(container.NewVBox(s.statsLabel, s.summaryLabel))
	scroll.SetMinSize(fyne.NewSize(0, 150))

	return container.NewBorder(container.NewPadded(header), nil, nil, nil, container.NewPadded(scroll))
}

func (s *StepBuilder) updateFileCount() {
	dir := strings.TrimSpace(s.inputEntry.Text)
	if dir == "" {
		s.fileCountLabel.SetText("")
		return
	}

	files, err := ecg.ListFiles(dir)
	if err != nil {
		s.fileCountLabel.SetText("Folder not found")
		return
	}

	supported := 0
	for _, f := range files {
		if f.Supported() {
			supported++
		}
	}
	s.fileCountLabel.SetText(fmt.Sprintf("Found %d ECG record(s), %d other file(s)", supported, len(files)-supported))
}

// Config builds the run description from the current form values
func (s *StepBuilder) Config() pipeline.Config {
	format, err := ecg.LookupFormat(s.formatSelect.Selected)
	if err != nil {
		format = ecg.FormatDICOM
	}
	return pipeline.Config{
		InputDir:           strings.TrimSpace(s.inputEntry.Text),
		OutputDir:          strings.TrimSpace(s.outputEntry.Text),
		Format:             format,
		Anonymize:          s.anonymizeCheck.Checked,
		SkipInvalidRecords: s.anonymizeCheck.Checked && s.skipInvalidCheck.Checked,
	}
}

// ValidateFolders validates the folder step
func (s *StepBuilder) ValidateFolders() bool {
	if err := validateFolders(strings.TrimSpace(s.inputEntry.Text), strings.TrimSpace(s.outputEntry.Text)); err != nil {
		dialog.ShowError(err, s.window)
		return false
	}
	return true
}

func validateFolders(input, output string) error {
	if input == "" || output == "" {
		return errors.New("please choose both an input and an output folder")
	}
	info, err := os.Stat(input)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("input folder does not exist: %s", input)
	}
	return nil
}

// RunConvert starts the run in the background
func (s *StepBuilder) RunConvert() {
	s.processingMu.Lock()
	if s.processing {
		s.processingMu.Unlock()
		return
	}
	s.processing = true
	s.processingMu.Unlock()

	cfg := s.Config()
	s.wizard.SetBackEnabled(false)
	s.wizard.SetNextEnabled(false)

	go func() {
		defer func() {
			s.processingMu.Lock()
			s.processing = false
			s.processingMu.Unlock()
		}()

		s.convert(cfg)
		s.wizard.SetNextEnabled(true)
		s.wizard.SetBackEnabled(true)
	}()
}

// convert runs the pipeline and reports into the step widgets.
// Fyne v2.4 handles thread safety for widget updates.
func (s *StepBuilder) convert(cfg pipeline.Config) {
	s.progress.SetValue(0)
	s.statusLabel.SetText("Starting...")
	s.currentLabel.SetText("")
	s.statsLabel.SetText("")
	s.summaryLabel.SetText("")

	var done float64
	counts := map[pipeline.Status]int{}
	stats, err := s.pipeline.Run(cfg, func(ev pipeline.Event) {
		done += ev.Increment
		counts[ev.Status]++
		s.progress.SetValue(done)
		s.statusLabel.SetText(passLabel(ev.Pass))
		s.currentLabel.SetText(fmt.Sprintf("Current: %s", ev.File))
		s.statsLabel.SetText(fmt.Sprintf("Success: %d | Skipped: %d | Failed: %d",
			counts[pipeline.StatusSuccess], counts[pipeline.StatusSkipped], counts[pipeline.StatusFailed]))
	})

	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		s.statusLabel.SetText("Nothing to do")
		s.summaryLabel.SetText(fmt.Sprintf("No files found in %s", cfg.InputDir))
	case err != nil:
		s.statusLabel.SetText("Error!")
		s.summaryLabel.SetText(fmt.Sprintf("Error: %v", err))
	default:
		s.progress.SetValue(100)
		s.statusLabel.SetText("Complete!")
		s.currentLabel.SetText("")
		s.summaryLabel.SetText(summaryText(stats, cfg))
	}
}

func passLabel(p pipeline.Pass) string {
	switch p {
	case pipeline.PassStage:
		return "Step 1/3: staging records as MUSE-XML"
	case pipeline.PassAnonymize:
		return "Step 2/3: anonymizing demographics"
	case pipeline.PassExport:
		return "Step 3/3: converting to the target format"
	default:
		return "Converting"
	}
}

func summaryText(stats *pipeline.Stats, cfg pipeline.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Converted %d file(s) to %s\n", stats.Processed(), cfg.Format.Name)
	fmt.Fprintf(&b, "Skipped: %d\nFailed: %d\n", stats.Skipped, stats.Failed)
	if cfg.Anonymize {
		fmt.Fprintf(&b, "Anonymized: %d\nKey file: %s\n", stats.Anonymized, stats.KeyFile)
	}
	fmt.Fprintf(&b, "\nOutput: %s", cfg.OutputDir)
	return b.String()
}

// IsProcessing returns whether processing is in progress
func (s *StepBuilder) IsProcessing() bool {
	s.processingMu.Lock()
	defer s.processingMu.Unlock()
	return s.processing
}
