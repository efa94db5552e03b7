// Package attribute re-encodes the string attributes of models read from
// Latin-1 columns into UTF-8.
//
// Encoding is not idempotent: a value that is already UTF-8 is treated as
// Latin-1 bytes and encoded again. Only apply it to values read from
// ISO-8859-1 storage.
package attribute

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Model exposes the attributes of a record.
type Model interface {
	Attributes() map[string]any
	SetAttribute(key string, value any)
}

// Map is a Model over a plain attribute map.
type Map map[string]any

// Attributes implements Model.
func (m Map) Attributes() map[string]any { return m }

// SetAttribute implements Model.
func (m Map) SetAttribute(key string, value any) { m[key] = value }

// UTF8Encode returns s with every byte decoded as ISO-8859-1.
func UTF8Encode(s string) string {
	// Every byte is a valid ISO-8859-1 code point.
	out, _ := charmap.ISO8859_1.NewDecoder().String(s)
	return out
}

// UTF8EncodeModel re-encodes every string attribute of m that is not a
// number. Other attributes are left untouched. m is returned for chaining.
func UTF8EncodeModel[M Model](m M) M {
	for k, v := range m.Attributes() {
		s, ok := v.(string)
		if !ok || IsNumeric(s) {
			continue
		}
		m.SetAttribute(k, UTF8Encode(s))
	}
	return m
}

// UTF8EncodeModels applies UTF8EncodeModel to each model in place.
func UTF8EncodeModels[M Model](ms []M) []M {
	for _, m := range ms {
		UTF8EncodeModel(m)
	}
	return ms
}

// UTF8EncodeStruct re-encodes the exported string fields of the struct
// ptr points to, descending into nested structs and non-nil pointers.
func UTF8EncodeStruct(ptr any) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.New("attribute: UTF8EncodeStruct requires a non-nil pointer to a struct")
	}
	w := walker{seen: make(map[pointerKey]struct{})}
	w.encode(v)
	return nil
}

// pointerKey identifies a pointee. The type is part of the key because a
// struct and its first field share an address.
type pointerKey struct {
	addr uintptr
	typ  reflect.Type
}

// walker visits each pointee once, so cyclic and shared values are
// encoded a single time.
type walker struct {
	seen map[pointerKey]struct{}
}

func (w walker) encode(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		key := pointerKey{addr: v.Pointer(), typ: v.Type()}
		if _, ok := w.seen[key]; ok {
			return
		}
		w.seen[key] = struct{}{}
		w.encode(v.Elem())
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				w.encode(v.Field(i))
			}
		}
	case reflect.String:
		if s := v.String(); v.CanSet() && !IsNumeric(s) {
			v.SetString(UTF8Encode(s))
		}
	}
}

// IsNumeric reports whether s is a decimal or float literal, optionally
// surrounded by whitespace. Infinities and NaN are not numbers here.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return true
	case err != nil:
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
