package demographics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const museRecord = `<?xml version="1.0" encoding="UTF-8"?>
<RestingECG>
  <MuseInfo><MuseVersion>8.0.2.10132</MuseVersion></MuseInfo>
  <PatientDemographics>
    <PatientID>12345</PatientID>
    <PatientAge>64</PatientAge>
    <DateofBirth>03/14/1960</DateofBirth>
    <Gender>MALE</Gender>
    <Race>CAUCASIAN</Race>
    <PatientLastName>DOE</PatientLastName>
    <PatientFirstName>JOHN</PatientFirstName>
  </PatientDemographics>
  <TestDemographics>
    <DataType>RESTING</DataType>
    <Site>1</Site>
    <AcquisitionTime>08:15:42</AcquisitionTime>
    <AcquisitionDate>02/29/2024</AcquisitionDate>
    <SecondaryID>ORD-77</SecondaryID>
  </TestDemographics>
</RestingECG>
`

var fixedNow = time.Date(2026, time.October, 19, 14, 5, 9, 0, time.UTC)

func writeRecord(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rest.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestAnonymizer() *Anonymizer {
	return New(zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func TestPseudonymIsDeterministic(t *testing.T) {
	const want = "5994471abb01112afcc18159f6cc74b4f511b99806da59b3caf5a9c173cacfc5"

	assert.Equal(t, want, Pseudonym("12345"))
	assert.Equal(t, Pseudonym("12345"), Pseudonym("12345"))
	assert.Len(t, Pseudonym(""), 64)
	assert.NotEqual(t, Pseudonym("12345"), Pseudonym("12346"))
}

func TestAnonymizeFile(t *testing.T) {
	path := writeRecord(t, museRecord)

	rec, err := newTestAnonymizer().AnonymizeFile(path)
	require.NoError(t, err)

	assert.Equal(t, Record{
		PatientID:               "12345",
		AnonID:                  Pseudonym("12345"),
		AcquisitionDateTime:     "02/29/2024 08:15:42",
		AnonAcquisitionDateTime: Pseudonym("02/29/2024 08:15:42"),
	}, rec)

	doc, err := Load(path)
	require.NoError(t, err)

	field := func(group, name string) string {
		v, err := doc.Field(group, name)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, rec.AnonID, field(GroupPatient, FieldPatientID))
	assert.Equal(t, rec.AnonAcquisitionDateTime, field(GroupTest, FieldSecondaryID))
	assert.Equal(t, "10/19/2026", field(GroupTest, FieldAcquisitionDate))
	assert.Equal(t, "14:05:09", field(GroupTest, FieldAcquisitionTime))
	for _, name := range RedactedFields {
		assert.Empty(t, field(GroupPatient, name), name)
	}

	// untouched fields survive
	assert.Equal(t, "64", field(GroupPatient, "PatientAge"))
	assert.Equal(t, "RESTING", field(GroupTest, "DataType"))
}

func TestSaveWritesUTF8Declaration(t *testing.T) {
	latin1 := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		strings.Replace(strings.SplitN(museRecord, "\n", 2)[1],
			"<Site>1</Site>", "<Site>H\xf4pital</Site>", 1)
	path := writeRecord(t, latin1)

	_, err := newTestAnonymizer().AnonymizeFile(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`), out)
	assert.Equal(t, 1, strings.Count(out, "<?xml"))
	assert.Contains(t, out, "<Site>Hôpital</Site>")
}

func TestAnonymizeMissingField(t *testing.T) {
	broken := strings.Replace(museRecord, "<SecondaryID>ORD-77</SecondaryID>", "", 1)
	path := writeRecord(t, broken)

	_, err := newTestAnonymizer().AnonymizeFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldNotFound))

	var fnf *FieldNotFoundError
	require.ErrorAs(t, err, &fnf)
	assert.Equal(t, "TestDemographics/SecondaryID", fnf.Path)

	// nothing was written back
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
}

func TestAnonymizeRedactsWhateverTheContent(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"already empty", FieldGender, ""},
		{"markup characters", FieldPatientLastName, "O&apos;Brien &amp; Sons"},
		{"whitespace", FieldRace, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := replaceField(museRecord, tt.field, tt.value)
			path := writeRecord(t, content)

			_, err := newTestAnonymizer().AnonymizeFile(path)
			require.NoError(t, err)

			doc, err := Load(path)
			require.NoError(t, err)
			for _, name := range RedactedFields {
				v, err := doc.Field(GroupPatient, name)
				require.NoError(t, err)
				assert.Empty(t, v, name)
			}
		})
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := writeRecord(t, "this is not xml")
	_, err := Load(path)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.False(t, errors.Is(err, ErrFieldNotFound))
}

// replaceField swaps the text of the first <name>...</name> element.
func replaceField(doc, name, value string) string {
	openTag, closeTag := "<"+name+">", "</"+name+">"
	start := strings.Index(doc, openTag) + len(openTag)
	end := strings.Index(doc, closeTag)
	return doc[:start] + value + doc[end:]
}

func TestLoadMissingFileIsNotMalformed(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.xml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedDocument))
}
