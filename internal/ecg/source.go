// Package ecg holds the record model shared by the conversion pipeline:
// discovered source files, the target format catalog and the conversion
// requests built from them.
package ecg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SupportedExtensions are the input extensions accepted by the converter
var SupportedExtensions = map[string]bool{
	".dcm": true,
	".xml": true,
	".scp": true,
	".ecg": true,
}

// Convertible is anything that can be handed to the external converter.
type Convertible interface {
	Path() string
	Supported() bool
	Request(format TargetFormat, outDir string) ConversionRequest
}

// SourceFile is a waveform record found in a directory listing.
type SourceFile struct {
	Dir  string
	Name string // file name including extension
	Base string // file name without extension
	Ext  string // extension as found on disk, including the dot
}

var _ Convertible = SourceFile{}

// NewSourceFile splits a file name found in dir into its parts.
func NewSourceFile(dir, name string) SourceFile {
	ext := filepath.Ext(name)
	return SourceFile{
		Dir:  dir,
		Name: name,
		Base: strings.TrimSuffix(name, ext),
		Ext:  ext,
	}
}

// Path returns the full path of the file.
func (s SourceFile) Path() string {
	return filepath.Join(s.Dir, s.Name)
}

// Supported reports whether the extension is on the allow-list.
// The comparison ignores case, so "A.XML" is treated like "a.xml".
func (s SourceFile) Supported() bool {
	return SupportedExtensions[strings.ToLower(s.Ext)]
}

// Request builds the conversion request for this file.
func (s SourceFile) Request(format TargetFormat, outDir string) ConversionRequest {
	return NewRequest(s, format, outDir)
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Subdirectories are ignored.
func ListFiles(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}

	var files []SourceFile
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, NewSourceFile(dir, e.Name()))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}
