// Package auditkey records the mapping from original to pseudonymous
// identifiers for one anonymized run and writes it as CSV.
package auditkey

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"ecg-converter/internal/demographics"
)

// FileName is the name of the audit key written to the output directory.
const FileName = "anonymization_key.csv"

// Header is the first row of the audit key
var Header = []string{"pat_id", "ano_id", "acq_datetime", "acq_datetime_ano"}

// Recorder accumulates anonymization records in order.
// It is not safe for concurrent use.
type Recorder struct {
	records []demographics.Record
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append adds one record.
func (r *Recorder) Append(rec demographics.Record) {
	r.records = append(r.records, rec)
}

// Len returns the number of records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Records returns a copy of the accumulated records.
func (r *Recorder) Records() []demographics.Record {
	out := make([]demographics.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Persist writes the header and all records to outDir/anonymization_key.csv
// and returns the file path. Values containing commas, quotes or line breaks
// are quoted.
func (r *Recorder) Persist(outDir string) (string, error) {
	path := filepath.Join(outDir, FileName)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create audit key: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	rows := make([][]string, 0, len(r.records)+1)
	rows = append(rows, Header)
	for _, rec := range r.records {
		rows = append(rows, []string{
			rec.PatientID,
			rec.AnonID,
			rec.AcquisitionDateTime,
			rec.AnonAcquisitionDateTime,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("could not write audit key: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("could not close audit key: %w", err)
	}

	return path, nil
}
