package ecg

import (
	"fmt"
	"strings"
)

// TargetFormat is an output format understood by the external converter.
type TargetFormat struct {
	Name string // display name passed to the converter, e.g. "DICOM"
	Ext  string // extension of produced files, including the dot
}

func (f TargetFormat) String() string {
	return f.Name
}

// Output formats supported by the converter
var (
	FormatDICOM   = TargetFormat{Name: "DICOM", Ext: ".dcm"}
	FormatISHNE   = TargetFormat{Name: "ISHNE", Ext: ".ecg"}
	FormatMUSEXML = TargetFormat{Name: "MUSE-XML", Ext: ".xml"}
	FormatSCPECG  = TargetFormat{Name: "SCP-ECG", Ext: ".scp"}
	FormatAECG    = TargetFormat{Name: "aECG", Ext: ".xml"}
	FormatCSV     = TargetFormat{Name: "CSV", Ext: ".csv"}
)

// Formats is the catalog of target formats in display order.
var Formats = []TargetFormat{
	FormatDICOM,
	FormatISHNE,
	FormatMUSEXML,
	FormatSCPECG,
	FormatAECG,
	FormatCSV,
}

// IntermediateFormat is the structured format used for staging files that
// are about to be anonymized. Demographic fields are addressable in it.
var IntermediateFormat = FormatMUSEXML

// LookupFormat finds a target format by display name (case-insensitive).
func LookupFormat(name string) (TargetFormat, error) {
	name = strings.TrimSpace(name)
	for _, f := range Formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return TargetFormat{}, fmt.Errorf("unknown target format %q (valid: %s)", name, strings.Join(FormatNames(), ", "))
}

// FormatNames returns the display names of all target formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name
	}
	return names
}
