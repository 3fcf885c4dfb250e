package structured

import (
	"strings"

	"github.com/valyala/fastjson"
)

// FindKey returns every value stored under key, at any depth. A value
// whose key matches is returned without descending into it.
func (d *Document) FindKey(key string) []*fastjson.Value {
	var out []*fastjson.Value
	findKey(d.root, key, &out)
	return out
}

func findKey(v *fastjson.Value, key string, out *[]*fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		o.Visit(func(k []byte, item *fastjson.Value) {
			if string(k) == key {
				*out = append(*out, item)
				return
			}
			findKey(item, key, out)
		})
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			findKey(item, key, out)
		}
	}
}

// FindKeyIn returns the values of key found only inside values of
// context. Context values that are arrays are searched element-wise.
func (d *Document) FindKeyIn(context, key string) []*fastjson.Value {
	var out []*fastjson.Value
	for _, ctx := range d.FindKey(context) {
		switch ctx.Type() {
		case fastjson.TypeObject:
			if ctx.Exists(key) {
				out = append(out, ctx.Get(key))
			}
		case fastjson.TypeArray:
			items, _ := ctx.Array()
			for _, item := range items {
				if item.Type() == fastjson.TypeObject && item.Exists(key) {
					out = append(out, item.Get(key))
				}
			}
		}
	}
	return out
}

// FindValue returns the keys whose leaf value contains target, mapped
// to those values. Strings match by substring; other scalars match
// against their serialized text.
func (d *Document) FindValue(target string) map[string]*fastjson.Value {
	out := make(map[string]*fastjson.Value)
	findValue(d.root, target, out)
	return out
}

func findValue(v *fastjson.Value, target string, out map[string]*fastjson.Value) {
	if v.Type() != fastjson.TypeObject {
		if v.Type() == fastjson.TypeArray {
			items, _ := v.Array()
			for _, item := range items {
				findValue(item, target, out)
			}
		}
		return
	}

	o, _ := v.Object()
	o.Visit(func(k []byte, item *fastjson.Value) {
		switch item.Type() {
		case fastjson.TypeObject, fastjson.TypeArray:
			findValue(item, target, out)
		default:
			if strings.Contains(leafText(item), target) {
				out[string(k)] = item
			}
		}
	})
}

func leafText(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		sb, _ := v.StringBytes()
		return string(sb)
	}
	return string(v.MarshalTo(nil))
}

// Normalize coerces string leaves spelling "true", "false", "null", or
// "none" (case-insensitive) into real booleans and nulls.
func (d *Document) Normalize() {
	d.normalize(d.root)
}

func (d *Document) normalize(v *fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()

		// Collect replacements first; mutating during Visit is unsafe.
		type repl struct {
			key   string
			value *fastjson.Value
		}
		var repls []repl
		o.Visit(func(k []byte, item *fastjson.Value) {
			if nv, ok := d.coerce(item); ok {
				repls = append(repls, repl{key: string(k), value: nv})
				return
			}
			d.normalize(item)
		})
		for _, r := range repls {
			v.Set(r.key, r.value)
		}
	case fastjson.TypeArray:
		items, _ := v.Array()
		for i, item := range items {
			if nv, ok := d.coerce(item); ok {
				v.SetArrayItem(i, nv)
				continue
			}
			d.normalize(item)
		}
	}
}

func (d *Document) coerce(v *fastjson.Value) (*fastjson.Value, bool) {
	if v.Type() != fastjson.TypeString {
		return nil, false
	}
	sb, _ := v.StringBytes()
	switch strings.ToLower(string(sb)) {
	case "true":
		return d.arena.NewTrue(), true
	case "false":
		return d.arena.NewFalse(), true
	case "null", "none":
		return d.arena.NewNull(), true
	}
	return nil, false
}
