// Package demographics pseudonymizes the patient and test demographics of a
// structured (MUSE-XML) waveform record.
package demographics

import (
	"time"

	"github.com/rs/zerolog"
)

// Demographic field names. DateofBirth follows the MUSE spelling.
const (
	FieldPatientID        = "PatientID"
	FieldDateOfBirth      = "DateofBirth"
	FieldGender           = "Gender"
	FieldRace             = "Race"
	FieldPatientFirstName = "PatientFirstName"
	FieldPatientLastName  = "PatientLastName"

	FieldAcquisitionDate = "AcquisitionDate"
	FieldAcquisitionTime = "AcquisitionTime"
	FieldSecondaryID     = "SecondaryID"
)

// Layouts for the replacement acquisition date and time (MM/DD/YYYY, HH:MM:SS)
const (
	DateLayout = "01/02/2006"
	TimeLayout = "15:04:05"
)

// RedactedFields are blanked in every anonymized record
var RedactedFields = []string{
	FieldDateOfBirth,
	FieldGender,
	FieldRace,
	FieldPatientFirstName,
	FieldPatientLastName,
}

type fieldRef struct{ group, name string }

type fieldUpdate struct {
	ref   fieldRef
	value string
}

// requiredFields must all exist before anything is modified.
var requiredFields = []fieldRef{
	{GroupPatient, FieldPatientID},
	{GroupPatient, FieldDateOfBirth},
	{GroupPatient, FieldGender},
	{GroupPatient, FieldRace},
	{GroupPatient, FieldPatientFirstName},
	{GroupPatient, FieldPatientLastName},
	{GroupTest, FieldAcquisitionDate},
	{GroupTest, FieldAcquisitionTime},
	{GroupTest, FieldSecondaryID},
}

// Record maps the original identifiers of one file to their pseudonyms.
type Record struct {
	PatientID               string
	AnonID                  string
	AcquisitionDateTime     string
	AnonAcquisitionDateTime string
}

// Anonymizer applies the de-identification steps to records.
type Anonymizer struct {
	now func() time.Time
	log zerolog.Logger
}

// New creates an anonymizer that stamps records with the wall clock.
func New(log zerolog.Logger) *Anonymizer {
	return &Anonymizer{
		now: time.Now,
		log: log.With().Str("component", "anonymizer").Logger(),
	}
}

// WithClock returns a copy of a that reads the current time from now.
func (a *Anonymizer) WithClock(now func() time.Time) *Anonymizer {
	c := *a
	c.now = now
	return &c
}

// AnonymizeFile loads the document at path, anonymizes it and writes it back.
func (a *Anonymizer) AnonymizeFile(path string) (Record, error) {
	doc, err := Load(path)
	if err != nil {
		return Record{}, err
	}

	rec, err := a.Anonymize(doc)
	if err != nil {
		return Record{}, err
	}

	if err := doc.Save(); err != nil {
		return Record{}, err
	}

	a.log.Debug().Str("file", path).Msg("anonymized")
	return rec, nil
}

// Anonymize pseudonymizes doc in place and returns the identifier mapping.
//
// The acquisition date and time are replaced with the time of anonymization,
// not shifted, so the true acquisition timestamp is only recoverable through
// the audit key.
func (a *Anonymizer) Anonymize(doc Anonymizable) (Record, error) {
	for _, f := range requiredFields {
		if _, err := doc.Field(f.group, f.name); err != nil {
			return Record{}, err
		}
	}

	patientID, _ := doc.Field(GroupPatient, FieldPatientID)
	acqDate, _ := doc.Field(GroupTest, FieldAcquisitionDate)
	acqTime, _ := doc.Field(GroupTest, FieldAcquisitionTime)
	acqDateTime := acqDate + " " + acqTime

	rec := Record{
		PatientID:               patientID,
		AnonID:                  Pseudonym(patientID),
		AcquisitionDateTime:     acqDateTime,
		AnonAcquisitionDateTime: Pseudonym(acqDateTime),
	}

	now := a.now()
	updates := []fieldUpdate{
		{fieldRef{GroupPatient, FieldPatientID}, rec.AnonID},
		{fieldRef{GroupTest, FieldSecondaryID}, rec.AnonAcquisitionDateTime},
		{fieldRef{GroupTest, FieldAcquisitionDate}, now.Format(DateLayout)},
		{fieldRef{GroupTest, FieldAcquisitionTime}, now.Format(TimeLayout)},
	}
	for _, name := range RedactedFields {
		updates = append(updates, fieldUpdate{fieldRef{GroupPatient, name}, ""})
	}

	for _, u := range updates {
		if err := doc.SetField(u.ref.group, u.ref.name, u.value); err != nil {
			return Record{}, err
		}
	}

	return rec, nil
}
