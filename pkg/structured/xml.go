package structured

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// XMLDocument is a parsed XML document supporting path queries and
// in-place edits.
type XMLDocument struct {
	doc *etree.Document
}

// ParseXML parses an XML document. Malformed input (such as an
// unclosed tag) returns an error naming the position; a partial tree
// is never accepted.
func ParseXML(data []byte) (*XMLDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("parsing XML: document has no root element")
	}
	return &XMLDocument{doc: doc}, nil
}

// ParseXMLString parses an XML document from a string.
func ParseXMLString(s string) (*XMLDocument, error) {
	return ParseXML([]byte(s))
}

// Tree returns the underlying etree document.
func (d *XMLDocument) Tree() *etree.Document {
	return d.doc
}

// FindElement returns the first element matching the etree path.
func (d *XMLDocument) FindElement(path string) (*etree.Element, error) {
	e := d.doc.FindElement(path)
	if e == nil {
		return nil, fmt.Errorf("no element matches path %q", path)
	}
	return e, nil
}

// FindElements returns all elements matching the etree path.
func (d *XMLDocument) FindElements(path string) []*etree.Element {
	return d.doc.FindElements(path)
}

// SetText replaces the text of the first element matching the path.
func (d *XMLDocument) SetText(path, text string) error {
	e, err := d.FindElement(path)
	if err != nil {
		return err
	}
	e.SetText(text)
	return nil
}

// SetAttr sets an attribute on the first element matching the path.
func (d *XMLDocument) SetAttr(path, key, value string) error {
	e, err := d.FindElement(path)
	if err != nil {
		return err
	}
	e.CreateAttr(key, value)
	return nil
}

// Remove detaches the first element matching the path from the tree.
func (d *XMLDocument) Remove(path string) error {
	e, err := d.FindElement(path)
	if err != nil {
		return err
	}
	if e == d.doc.Root() {
		return errors.New("cannot remove the root element")
	}
	e.Parent().RemoveChild(e)
	return nil
}

// Indent reformats the document with the given indent width.
func (d *XMLDocument) Indent(spaces int) {
	d.doc.Indent(spaces)
}

// Bytes serializes the document back to XML text.
func (d *XMLDocument) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// String serializes the document back to XML text.
func (d *XMLDocument) String() (string, error) {
	return d.doc.WriteToString()
}
