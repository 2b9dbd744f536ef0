package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"ecg-converter/internal/ecg"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "ECGTool", cfg.Tool)
	assert.Equal(t, "DICOM", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.Anonymize)
	assert.Equal(t, ecg.FormatDICOM, cfg.TargetFormat())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ECGCONVERT_FORMAT", "csv")
	t.Setenv("ECGCONVERT_ANONYMIZE", "true")
	t.Setenv("ECGCONVERT_TOOL", "/opt/ecg/ECGTool")
	t.Setenv("ECGCONVERT_SKIP_INVALID", "true")

	v, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, v)

	v, err = New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ecg.FormatCSV, cfg.TargetFormat())
	assert.True(t, cfg.Anonymize)
	assert.True(t, cfg.SkipInvalid)
	assert.Equal(t, "/opt/ecg/ECGTool", cfg.Tool)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecgconvert.yaml")
	content := "input: /data/in\noutput: /data/out\nformat: SCP-ECG\nanonymize: true\nerror_log: /data/out/errors.log\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	pc := cfg.PipelineConfig()
	assert.Equal(t, "/data/in", pc.InputDir)
	assert.Equal(t, "/data/out", pc.OutputDir)
	assert.Equal(t, ecg.FormatSCPECG, pc.Format)
	assert.True(t, pc.Anonymize)
	assert.False(t, pc.SkipInvalidRecords)
	assert.Equal(t, "/data/out/errors.log", cfg.ErrorLog)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"format", "EDF"},
		{"log_format", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
