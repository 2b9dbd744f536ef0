package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecg-converter/internal/config"
	"ecg-converter/internal/pipeline"
)

// copyTool stands in for ECGTool: it copies the source to the output path.
const copyTool = "#!/bin/sh\ncp \"$1\" \"$3\"\n"

const museRecord = `<?xml version="1.0" encoding="UTF-8"?>
<RestingECG>
  <PatientDemographics>
    <PatientID>12345</PatientID>
    <DateofBirth>01/02/1960</DateofBirth>
    <Gender>MALE</Gender>
    <Race>CAUCASIAN</Race>
    <PatientFirstName>JOHN</PatientFirstName>
    <PatientLastName>DOE</PatientLastName>
  </PatientDemographics>
  <TestDemographics>
    <AcquisitionDate>05/06/2023</AcquisitionDate>
    <AcquisitionTime>10:11:12</AcquisitionTime>
    <SecondaryID>S1</SecondaryID>
  </TestDemographics>
</RestingECG>
`

func writeTool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tool requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ECGTool")
	require.NoError(t, os.WriteFile(path, []byte(copyTool), 0755))
	return path
}

func testConfig(t *testing.T, tool string) *config.Config {
	t.Helper()
	return &config.Config{
		Input:     t.TempDir(),
		Output:    filepath.Join(t.TempDir(), "out"),
		Format:    "DICOM",
		Tool:      tool,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func TestRunSinglePass(t *testing.T) {
	cfg := testConfig(t, writeTool(t))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Input, "a.scp"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Input, "b.ecg"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Input, "notes.txt"), []byte("n"), 0644))

	var out bytes.Buffer
	err := Run(Options{Config: cfg, Log: zerolog.Nop(), Out: &out})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Output, "a.dcm"))
	assert.FileExists(t, filepath.Join(cfg.Output, "b.dcm"))
	assert.Contains(t, out.String(), "Complete! 2 converted, 0 failed, 1 skipped")
	assert.Contains(t, out.String(), "100%")
	assert.NotContains(t, out.String(), "Key file")
}

func TestRunAnonymized(t *testing.T) {
	cfg := testConfig(t, writeTool(t))
	cfg.Anonymize = true
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Input, "rest.xml"), []byte(museRecord), 0644))

	var out bytes.Buffer
	err := Run(Options{Config: cfg, Log: zerolog.Nop(), Out: &out})
	require.NoError(t, err)

	exported, err := os.ReadFile(filepath.Join(cfg.Output, "rest.dcm"))
	require.NoError(t, err)
	assert.NotContains(t, string(exported), "<PatientFirstName>JOHN")
	assert.NotContains(t, string(exported), "<PatientID>12345<")

	key := filepath.Join(cfg.Output, "anonymization_key.csv")
	assert.FileExists(t, key)
	assert.NoDirExists(t, filepath.Join(cfg.Output, "temp"))
	assert.Contains(t, out.String(), "Anonymized: 1 records")
	assert.Contains(t, out.String(), key)
}

func TestRunEmptyInput(t *testing.T) {
	cfg := testConfig(t, writeTool(t))

	var out bytes.Buffer
	err := Run(Options{Config: cfg, Log: zerolog.Nop(), Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "No files found in "+cfg.Input)
	assert.NoDirExists(t, cfg.Output)
}

func TestRunDirectoriesUnset(t *testing.T) {
	cfg := testConfig(t, "ECGTool")
	cfg.Output = ""

	var out bytes.Buffer
	err := Run(Options{Config: cfg, Log: zerolog.Nop(), Out: &out})
	assert.ErrorIs(t, err, pipeline.ErrDirectoriesUnset)
	assert.Contains(t, out.String(), "Warning: both an input and an output directory are required.")
}

func TestRunMissingToolFailsEveryFile(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing", "ECGTool"))
	cfg.ErrorLog = filepath.Join(t.TempDir(), "errors.log")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Input, "a.scp"), []byte("a"), 0644))

	var out bytes.Buffer
	err := Run(Options{Config: cfg, Log: zerolog.Nop(), Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "was not found in PATH")
	assert.Contains(t, text, "Complete! 0 converted, 1 failed, 0 skipped")
	assert.Contains(t, text, "1 errors logged to "+cfg.ErrorLog)

	logged, err := os.ReadFile(cfg.ErrorLog)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(logged), "| convert | a.scp |"))
}

func TestRunRequiresConfig(t *testing.T) {
	assert.Error(t, Run(Options{}))
}

func TestProgressBarClampsAt100(t *testing.T) {
	var out bytes.Buffer
	pb := newProgressBar(&out, 10)

	for i := 0; i < 3; i++ {
		pb.advance(pipeline.Event{Pass: pipeline.PassConvert, File: "a.xml", Increment: 100.0 / 3})
	}
	pb.advance(pipeline.Event{Pass: pipeline.PassConvert, File: "b.xml", Increment: 5})

	assert.Equal(t, 100.0, pb.percent)
	assert.Contains(t, out.String(), "[##########] 100%")
}
