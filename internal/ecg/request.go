package ecg

import "path/filepath"

// ConversionRequest is one fully-populated invocation of the converter.
type ConversionRequest struct {
	Source     string
	FormatName string
	FormatExt  string
	Output     string
}

// NewRequest builds the request for converting src into format inside outDir.
func NewRequest(src SourceFile, format TargetFormat, outDir string) ConversionRequest {
	return ConversionRequest{
		Source:     src.Path(),
		FormatName: format.Name,
		FormatExt:  format.Ext,
		Output:     filepath.Join(outDir, src.Base+format.Ext),
	}
}

// Args returns the four-token command line for the converter.
func (r ConversionRequest) Args(tool string) []string {
	return []string{tool, r.Source, r.FormatName, r.Output}
}
