package structured

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/valyala/fastjson"
)

// JSONToXML converts a JSON document to indented XML text. Object keys
// become elements, scalars become element text, and arrays become
// repeated elements. A top-level object with a single object value uses
// that key as the root element; anything else is wrapped in <root>.
func JSONToXML(doc *Document, indent int) (string, error) {
	if doc.root.Type() != fastjson.TypeObject {
		return "", errors.New("converting to XML: top-level JSON value must be an object")
	}

	x := etree.NewDocument()

	o, _ := doc.root.Object()
	if name, v, ok := singleObjectEntry(o); ok {
		buildElement(&x.Element, name, v)
	} else {
		root := x.CreateElement("root")
		o.Visit(func(k []byte, item *fastjson.Value) {
			buildChild(root, string(k), item)
		})
	}

	x.Indent(indent)
	return x.WriteToString()
}

func singleObjectEntry(o *fastjson.Object) (string, *fastjson.Value, bool) {
	if o.Len() != 1 {
		return "", nil, false
	}
	var name string
	var v *fastjson.Value
	o.Visit(func(k []byte, item *fastjson.Value) {
		name = string(k)
		v = item
	})
	if v.Type() != fastjson.TypeObject {
		return "", nil, false
	}
	return name, v, true
}

func buildElement(parent *etree.Element, name string, v *fastjson.Value) {
	el := parent.CreateElement(name)
	o, _ := v.Object()
	o.Visit(func(k []byte, item *fastjson.Value) {
		buildChild(el, string(k), item)
	})
}

func buildChild(parent *etree.Element, name string, v *fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		buildElement(parent, name, v)
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			buildChild(parent, name, item)
		}
	default:
		el := parent.CreateElement(name)
		el.SetText(scalarText(v))
	}
}

func scalarText(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		sb, _ := v.StringBytes()
		return string(sb)
	case fastjson.TypeNull:
		return ""
	default:
		return string(v.MarshalTo(nil))
	}
}

// XMLToJSON converts an XML document to a JSON document. Elements
// become objects, attributes fold in as keys, repeated sibling
// elements become arrays, and text-only elements become strings. Text
// alongside attributes is stored under "#text".
func XMLToJSON(x *XMLDocument) (*Document, error) {
	root := x.doc.Root()
	if root == nil {
		return nil, errors.New("converting to JSON: document has no root element")
	}

	d := &Document{}
	top := d.arena.NewObject()
	top.Set(root.Tag, elementValue(&d.arena, root))
	d.root = top
	return d, nil
}

func elementValue(a *fastjson.Arena, e *etree.Element) *fastjson.Value {
	children := e.ChildElements()
	text := strings.TrimSpace(e.Text())

	if len(children) == 0 && len(e.Attr) == 0 {
		return a.NewString(text)
	}

	obj := a.NewObject()
	for _, attr := range e.Attr {
		obj.Set(attr.Key, a.NewString(attr.Value))
	}

	// Group children by tag, preserving first-seen order.
	var tags []string
	byTag := make(map[string][]*fastjson.Value)
	for _, child := range children {
		if _, seen := byTag[child.Tag]; !seen {
			tags = append(tags, child.Tag)
		}
		byTag[child.Tag] = append(byTag[child.Tag], elementValue(a, child))
	}

	for _, tag := range tags {
		values := byTag[tag]
		if len(values) == 1 {
			obj.Set(tag, values[0])
			continue
		}
		arr := a.NewArray()
		for i, v := range values {
			arr.SetArrayItem(i, v)
		}
		obj.Set(tag, arr)
	}

	if text != "" && len(children) == 0 {
		obj.Set("#text", a.NewString(text))
	}

	return obj
}
