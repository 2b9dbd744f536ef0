package dicom

import "github.com/suyashkumar/dicom/pkg/tag"

// residualTag is an identifying tag that must be empty in an anonymized export.
type residualTag struct {
	Name string
	Tag  tag.Tag
}

// ResidualTags are the DICOM counterparts of the demographic fields blanked
// during anonymization, plus identifiers the converter may carry over from
// the record header.
var ResidualTags = []residualTag{
	{"PatientName", tag.PatientName},
	{"PatientBirthDate", tag.PatientBirthDate},
	{"PatientBirthTime", tag.PatientBirthTime},
	{"PatientAge", tag.PatientAge},
	{"PatientSex", tag.PatientSex},
	{"EthnicGroup", tag.EthnicGroup},
	{"OtherPatientIDs", tag.OtherPatientIDs},
	{"PatientAddress", tag.PatientAddress},
	{"PatientTelephoneNumbers", tag.PatientTelephoneNumbers},
	{"ReferringPhysicianName", tag.ReferringPhysicianName},
	{"AccessionNumber", tag.AccessionNumber},
}
