package demographics

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Field groups in the MUSE-XML document
const (
	GroupPatient = "PatientDemographics"
	GroupTest    = "TestDemographics"
)

var (
	// ErrFieldNotFound is returned when a required demographic field is missing.
	ErrFieldNotFound = errors.New("demographic field not found")
	// ErrMalformedDocument is returned when a record is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed XML document")
)

// FieldNotFoundError names the missing field path.
type FieldNotFoundError struct {
	Path string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("demographic field not found: %s", e.Path)
}

// Is lets errors.Is match ErrFieldNotFound.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// Anonymizable is a record whose demographic fields can be read and written.
type Anonymizable interface {
	Field(group, name string) (string, error)
	SetField(group, name, value string) error
}

// Document is a MUSE-XML record loaded from disk.
type Document struct {
	path string
	doc  *etree.Document
}

var _ Anonymizable = (*Document)(nil)

// Load parses the XML document at path. Legacy encodings declared in the
// prolog (ISO-8859-1 is common for MUSE exports) are decoded.
func Load(path string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if err := doc.ReadFromFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("could not read %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformedDocument, path)
	}

	return &Document{path: path, doc: doc}, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) find(group, name string) (*etree.Element, error) {
	path := group + "/" + name
	el := d.doc.Root().FindElement(path)
	if el == nil {
		return nil, &FieldNotFoundError{Path: path}
	}
	return el, nil
}

// Field returns the text of group/name under the document root.
func (d *Document) Field(group, name string) (string, error) {
	el, err := d.find(group, name)
	if err != nil {
		return "", err
	}
	return el.Text(), nil
}

// SetField replaces the text of group/name under the document root.
func (d *Document) SetField(group, name, value string) error {
	el, err := d.find(group, name)
	if err != nil {
		return err
	}
	el.SetText(value)
	return nil
}

// Save writes the document back to its original path as UTF-8 with an XML
// declaration. Any declaration read from the source is replaced.
func (d *Document) Save() error {
	for i := len(d.doc.Child) - 1; i >= 0; i-- {
		if pi, ok := d.doc.Child[i].(*etree.ProcInst); ok && pi.Target == "xml" {
			d.doc.RemoveChildAt(i)
		}
	}
	d.doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))

	if err := d.doc.WriteToFile(d.path); err != nil {
		return fmt.Errorf("could not write XML %s: %w", d.path, err)
	}
	return nil
}
