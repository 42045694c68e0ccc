// Package plist reads and writes XML property lists, the format of
// exportOptions.plist and the payload of .mobileprovision files.
package plist

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

const doctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// dateLayout is the ISO 8601 form plists use for <date>.
const dateLayout = "2006-01-02T15:04:05Z"

// Marshal encodes v as an XML property list.
//
// Supported values are maps with string keys, slices, strings, booleans,
// integers, floats, []byte (as <data>) and time.Time (as <date>). Dictionary
// keys are written sorted. Nil map entries are skipped.
func Marshal(v any) ([]byte, error) {
	doc, err := document(v)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// Encode writes v to w as an XML property list.
func Encode(w io.Writer, v any) error {
	doc, err := document(v)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

func document(v any) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(doctype)
	root := doc.CreateElement("plist")
	root.CreateAttr("version", "1.0")

	if err := encodeValue(root, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	doc.IndentTabs()
	return doc, nil
}

func encodeValue(parent *etree.Element, v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("plist: cannot encode nil value")
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("plist: cannot encode nil value")
		}
		v = v.Elem()
	}

	if t, ok := v.Interface().(time.Time); ok {
		parent.CreateElement("date").SetText(t.UTC().Format(dateLayout))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		parent.CreateElement("string").SetText(v.String())
	case reflect.Bool:
		if v.Bool() {
			parent.CreateElement("true")
		} else {
			parent.CreateElement("false")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parent.CreateElement("integer").SetText(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parent.CreateElement("integer").SetText(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		parent.CreateElement("real").SetText(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(data), v)
			parent.CreateElement("data").SetText(base64.StdEncoding.EncodeToString(data))
			return nil
		}
		array := parent.CreateElement("array")
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(array, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("plist: dictionary keys must be strings, got %s", v.Type().Key())
		}
		dict := parent.CreateElement("dict")
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key()))
			if isNil(value) {
				continue
			}
			dict.CreateElement("key").SetText(k)
			if err := encodeValue(dict, value); err != nil {
				return fmt.Errorf("plist: key %q: %w", k, err)
			}
		}
	default:
		return fmt.Errorf("plist: unsupported type %s", v.Type())
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Unmarshal decodes an XML property list into plain Go values:
// map[string]any, []any, string, bool, int64, float64, []byte and time.Time.
func Unmarshal(data []byte) (any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("plist: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "plist" {
		return nil, fmt.Errorf("plist: missing <plist> root element")
	}
	children := root.ChildElements()
	if len(children) != 1 {
		return nil, fmt.Errorf("plist: expected one top-level value, found %d", len(children))
	}
	return decodeElement(children[0])
}

// UnmarshalDict decodes a property list whose top-level value is a dictionary.
func UnmarshalDict(data []byte) (map[string]any, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("plist: top-level value is %T, not a dictionary", v)
	}
	return dict, nil
}

func decodeElement(el *etree.Element) (any, error) {
	text := strings.TrimSpace(el.Text())
	switch el.Tag {
	case "string":
		return el.Text(), nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "integer":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("plist: bad integer %q", text)
		}
		return n, nil
	case "real":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("plist: bad real %q", text)
		}
		return f, nil
	case "date":
		t, err := time.Parse(dateLayout, text)
		if err != nil {
			return nil, fmt.Errorf("plist: bad date %q", text)
		}
		return t, nil
	case "data":
		// Data blocks are wrapped over many lines.
		compact := strings.Join(strings.Fields(text), "")
		b, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("plist: bad data block: %w", err)
		}
		return b, nil
	case "array":
		items := []any{}
		for _, child := range el.ChildElements() {
			v, err := decodeElement(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case "dict":
		return decodeDict(el)
	default:
		return nil, fmt.Errorf("plist: unknown element <%s>", el.Tag)
	}
}

func decodeDict(el *etree.Element) (map[string]any, error) {
	dict := map[string]any{}
	children := el.ChildElements()
	for i := 0; i < len(children); i += 2 {
		if children[i].Tag != "key" {
			return nil, fmt.Errorf("plist: expected <key> in dict, found <%s>", children[i].Tag)
		}
		if i+1 >= len(children) {
			return nil, fmt.Errorf("plist: key %q has no value", children[i].Text())
		}
		v, err := decodeElement(children[i+1])
		if err != nil {
			return nil, err
		}
		dict[children[i].Text()] = v
	}
	return dict, nil
}

// Extract returns the XML property list embedded in data, such as the signed
// CMS envelope of a .mobileprovision file.
func Extract(data []byte) ([]byte, error) {
	start := bytes.Index(data, []byte("<?xml"))
	if start < 0 {
		return nil, fmt.Errorf("plist: no XML header found")
	}
	const closing = "</plist>"
	end := bytes.Index(data[start:], []byte(closing))
	if end < 0 {
		return nil, fmt.Errorf("plist: no closing </plist> found")
	}
	return data[start : start+end+len(closing)], nil
}
