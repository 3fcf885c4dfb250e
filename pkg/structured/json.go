// Package structured parses, searches, and edits JSON and XML documents.
package structured

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fastjson"
)

// Document is a parsed JSON document supporting path lookup and in-place edits.
type Document struct {
	root  *fastjson.Value
	arena fastjson.Arena
}

// ParseJSON parses a JSON document. Malformed input returns an error
// naming the offending location.
func ParseJSON(data []byte) (*Document, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &Document{root: v}, nil
}

// ParseJSONString parses a JSON document from a string.
func ParseJSONString(s string) (*Document, error) {
	v, err := fastjson.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &Document{root: v}, nil
}

// Root returns the root value of the document.
func (d *Document) Root() *fastjson.Value {
	return d.root
}

// Get returns the value at the given path. Object keys and array
// indexes (as decimal strings) are both accepted as path elements.
func (d *Document) Get(path ...string) (*fastjson.Value, error) {
	v := d.root.Get(path...)
	if v == nil {
		return nil, fmt.Errorf("path %q not found", strings.Join(path, "."))
	}
	return v, nil
}

// GetString returns the string value at the given path.
func (d *Document) GetString(path ...string) (string, error) {
	v, err := d.Get(path...)
	if err != nil {
		return "", err
	}
	sb, err := v.StringBytes()
	if err != nil {
		return "", fmt.Errorf("path %q: %w", strings.Join(path, "."), err)
	}
	return string(sb), nil
}

// GetInt returns the integer value at the given path.
func (d *Document) GetInt(path ...string) (int, error) {
	v, err := d.Get(path...)
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if err != nil {
		return 0, fmt.Errorf("path %q: %w", strings.Join(path, "."), err)
	}
	return n, nil
}

// GetBool returns the boolean value at the given path.
func (d *Document) GetBool(path ...string) (bool, error) {
	v, err := d.Get(path...)
	if err != nil {
		return false, err
	}
	b, err := v.Bool()
	if err != nil {
		return false, fmt.Errorf("path %q: %w", strings.Join(path, "."), err)
	}
	return b, nil
}

// Set writes a value at the given path. The parent of the path must
// already exist. Accepted value types: nil, bool, string, int, int64,
// float64, and *fastjson.Value.
func (d *Document) Set(value interface{}, path ...string) error {
	if len(path) == 0 {
		return errors.New("set: empty path")
	}

	parent, last, err := d.parent(path)
	if err != nil {
		return err
	}

	v, err := d.buildValue(value)
	if err != nil {
		return err
	}

	parent.Set(last, v)
	return nil
}

// SetJSON parses raw as JSON and writes the result at the given path.
// If raw is not valid JSON it is stored as a plain string.
func (d *Document) SetJSON(raw string, path ...string) error {
	if v, err := fastjson.Parse(raw); err == nil {
		return d.Set(v, path...)
	}
	return d.Set(raw, path...)
}

// Delete removes the entry at the given path.
func (d *Document) Delete(path ...string) error {
	if len(path) == 0 {
		return errors.New("delete: empty path")
	}

	parent, last, err := d.parent(path)
	if err != nil {
		return err
	}

	if !parent.Exists(last) {
		return fmt.Errorf("path %q not found", strings.Join(path, "."))
	}

	parent.Del(last)
	return nil
}

// Bytes serializes the document back to JSON text.
func (d *Document) Bytes() []byte {
	return d.root.MarshalTo(nil)
}

// String serializes the document back to JSON text.
func (d *Document) String() string {
	return string(d.Bytes())
}

func (d *Document) parent(path []string) (*fastjson.Value, string, error) {
	last := path[len(path)-1]
	parentPath := path[:len(path)-1]

	parent := d.root
	if len(parentPath) > 0 {
		parent = d.root.Get(parentPath...)
		if parent == nil {
			return nil, "", fmt.Errorf("parent path %q not found", strings.Join(parentPath, "."))
		}
	}

	if t := parent.Type(); t != fastjson.TypeObject && t != fastjson.TypeArray {
		return nil, "", fmt.Errorf("parent path %q is a %s, not an object or array",
			strings.Join(parentPath, "."), t)
	}

	return parent, last, nil
}

func (d *Document) buildValue(value interface{}) (*fastjson.Value, error) {
	switch v := value.(type) {
	case nil:
		return d.arena.NewNull(), nil
	case bool:
		if v {
			return d.arena.NewTrue(), nil
		}
		return d.arena.NewFalse(), nil
	case string:
		return d.arena.NewString(v), nil
	case int:
		return d.arena.NewNumberInt(v), nil
	case int64:
		return d.arena.NewNumberInt(int(v)), nil
	case float64:
		return d.arena.NewNumberFloat64(v), nil
	case *fastjson.Value:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
