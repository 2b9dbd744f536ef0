package dicom

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Summary holds the identifying tags of one DICOM file.
type Summary struct {
	Path                string
	PatientID           string
	PatientName         string
	PatientBirthDate    string
	PatientSex          string
	Modality            string
	AcquisitionDateTime string
	TransferSyntax      string
	// Residual lists the populated entries of ResidualTags.
	Residual []Field
}

// Field is a named tag value, in display order.
type Field struct {
	Name  string
	Value string
}

// Inspect reads the header of path and extracts its demographic tags.
func Inspect(path string) (*Summary, error) {
	ds, err := ReadMetadata(path)
	if err != nil {
		return nil, err
	}
	return ds.Summary(), nil
}

// Summary extracts the demographic tags of the dataset.
func (d *Dataset) Summary() *Summary {
	s := &Summary{
		Path:                d.FilePath,
		PatientID:           d.GetString(tag.PatientID),
		PatientName:         d.GetString(tag.PatientName),
		PatientBirthDate:    d.GetString(tag.PatientBirthDate),
		PatientSex:          d.GetString(tag.PatientSex),
		Modality:            d.GetString(tag.Modality),
		AcquisitionDateTime: d.GetString(tag.AcquisitionDateTime),
		TransferSyntax:      d.GetString(tag.TransferSyntaxUID),
	}
	for _, rt := range ResidualTags {
		if v := d.GetString(rt.Tag); v != "" {
			s.Residual = append(s.Residual, Field{rt.Name, v})
		}
	}
	return s
}

// Fields lists the summary for printing. Empty values are shown as "-".
func (s *Summary) Fields() []Field {
	fields := []Field{
		{"PatientID", s.PatientID},
		{"PatientName", s.PatientName},
		{"PatientBirthDate", s.PatientBirthDate},
		{"PatientSex", s.PatientSex},
		{"Modality", s.Modality},
		{"AcquisitionDateTime", s.AcquisitionDateTime},
		{"TransferSyntax", s.TransferSyntax},
	}
	for i := range fields {
		if fields[i].Value == "" {
			fields[i].Value = "-"
		}
	}
	return fields
}

// Identified reports whether any identifying tag other than the
// pseudonymized PatientID is still populated.
func (s *Summary) Identified() bool {
	return len(s.Residual) > 0
}
