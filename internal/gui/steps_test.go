package gui

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecg-converter/internal/converter"
	"ecg-converter/internal/demographics"
	"ecg-converter/internal/ecg"
	"ecg-converter/internal/pipeline"
)

// touchRunner writes an empty output file for every conversion.
type touchRunner struct{}

func (touchRunner) Run(name string, args []string) ([]byte, error) {
	return nil, os.WriteFile(args[2], nil, 0644)
}

func newTestSteps(t *testing.T, defaults pipeline.Config) *StepBuilder {
	t.Helper()
	test.NewApp()
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	log := zerolog.Nop()
	p := pipeline.New(converter.NewWithRunner("ECGTool", touchRunner{}, log), demographics.New(log), log)

	s := NewStepBuilder(w, NewWizard(), p, defaults)
	s.BuildFolders()
	s.BuildOptions()
	s.BuildConvert()
	return s
}

func TestValidateFolders(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.xml")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.Error(t, validateFolders("", dir))
	assert.Error(t, validateFolders(dir, ""))
	assert.Error(t, validateFolders(filepath.Join(dir, "missing"), dir))
	assert.Error(t, validateFolders(file, dir))
	assert.NoError(t, validateFolders(dir, filepath.Join(dir, "out")))
}

func TestStepsConfigFromDefaults(t *testing.T) {
	s := newTestSteps(t, pipeline.Config{
		InputDir:  "/data/in",
		OutputDir: "/data/out",
		Format:    ecg.FormatCSV,
		Anonymize: true,
	})

	cfg := s.Config()
	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, ecg.FormatCSV, cfg.Format)
	assert.True(t, cfg.Anonymize)
	assert.False(t, cfg.SkipInvalidRecords)
}

func TestStepsSkipInvalidNeedsAnonymize(t *testing.T) {
	s := newTestSteps(t, pipeline.Config{})
	s.skipInvalidCheck.SetChecked(true)

	assert.Equal(t, ecg.FormatDICOM, s.Config().Format)
	assert.False(t, s.Config().SkipInvalidRecords)

	s.anonymizeCheck.SetChecked(true)
	assert.True(t, s.Config().SkipInvalidRecords)
}

func TestStepsFileCount(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xml", "b.SCP", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	s := newTestSteps(t, pipeline.Config{})
	s.inputEntry.SetText(dir)
	s.updateFileCount()

	assert.Equal(t, "Found 2 ECG record(s), 1 other file(s)", s.fileCountLabel.Text)

	s.inputEntry.SetText(filepath.Join(dir, "missing"))
	s.updateFileCount()
	assert.Equal(t, "Folder not found", s.fileCountLabel.Text)
}

func TestStepsConvert(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.scp"), nil, 0644))

	s := newTestSteps(t, pipeline.Config{InputDir: in, OutputDir: out})
	s.convert(s.Config())

	assert.Equal(t, "Complete!", s.statusLabel.Text)
	assert.Equal(t, 100.0, s.progress.Value)
	assert.Contains(t, s.summaryLabel.Text, "Converted 1 file(s) to DICOM")
	assert.FileExists(t, filepath.Join(out, "a.dcm"))
}

func TestStepsConvertEmptyInput(t *testing.T) {
	s := newTestSteps(t, pipeline.Config{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	s.convert(s.Config())

	assert.Equal(t, "Nothing to do", s.statusLabel.Text)
	assert.Contains(t, s.summaryLabel.Text, "No files found")
}

func TestSummaryText(t *testing.T) {
	stats := &pipeline.Stats{Files: 3, Converted: 2, Failed: 1, Anonymized: 2, KeyFile: "/out/anonymization_key.csv"}

	text := summaryText(stats, pipeline.Config{OutputDir: "/out", Format: ecg.FormatSCPECG, Anonymize: true})
	assert.Contains(t, text, "Converted 2 file(s) to SCP-ECG")
	assert.Contains(t, text, "Failed: 1")
	assert.Contains(t, text, "Key file: /out/anonymization_key.csv")

	text = summaryText(stats, pipeline.Config{OutputDir: "/out", Format: ecg.FormatSCPECG})
	assert.NotContains(t, text, "Key file")
}

func TestWizardNavigation(t *testing.T) {
	test.NewApp()
	w := NewWizard()
	allowed := false
	w.SetCanProceed(func(WizardStep) bool { return allowed })

	w.Next()
	assert.Equal(t, StepFolders, w.CurrentStep())

	allowed = true
	w.Next()
	assert.Equal(t, StepOptions, w.CurrentStep())
	assert.Equal(t, "Convert", w.nextButton.Text)

	w.Next()
	assert.Equal(t, StepConvert, w.CurrentStep())
	assert.True(t, w.nextButton.Disabled())

	w.Previous()
	assert.Equal(t, StepOptions, w.CurrentStep())
}
