package client

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

// Result is a decoded response body. Which fields are set depends on Format:
//
//	json        Value and Text (raw body)
//	object      Value
//	yaml        Value and Text (YAML rendering)
//	prettyjson  Text (indented JSON)
//	xml         Text (raw body)
//	prettyxml   Text (indented XML)
//
// Raw always holds the undecoded body.
type Result struct {
	Format Format
	Raw    []byte
	Text   string
	Value  any
}

// String renders the result for display
func (r *Result) String() string {
	if r.Text != "" || r.Value == nil {
		return r.Text
	}
	out, err := json.MarshalIndent(r.Value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", r.Value)
	}
	return string(out)
}

// Lookup walks nested JSON objects by key. It reports false when a key is
// missing or an intermediate value is not an object.
func (r *Result) Lookup(keys ...string) (any, bool) {
	cur := r.Value
	for _, key := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func decode(format Format, body []byte) (*Result, error) {
	res := &Result{Format: format, Raw: body}

	switch format {
	case FormatJSON, FormatObject, FormatYAML:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, arcuserr.Decode(format.String(), err)
		}
		res.Value = v
		switch format {
		case FormatJSON:
			res.Text = string(body)
		case FormatYAML:
			out, err := yaml.Marshal(v)
			if err != nil {
				return nil, arcuserr.Decode(format.String(), err)
			}
			res.Text = string(out)
		}

	case FormatPrettyJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
			return nil, arcuserr.Decode(format.String(), err)
		}
		res.Text = buf.String()

	case FormatXML:
		res.Text = string(body)

	case FormatPrettyXML:
		out, err := indentXML(body)
		if err != nil {
			return nil, arcuserr.Decode(format.String(), err)
		}
		res.Text = out

	default:
		return nil, arcuserr.Decode(format.String(), errors.New("unsupported format"))
	}

	return res, nil
}

// indentXML re-serialises an XML document with two space indentation,
// dropping whitespace-only text between elements.
func indentXML(body []byte) (string, error) {
	var buf bytes.Buffer
	dec := xml.NewDecoder(bytes.NewReader(body))
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		case xml.ProcInst:
			// the encoder does not break the line after a declaration
			if t.Target == "xml" && !sawRoot {
				buf.WriteString("<?xml " + string(t.Inst) + "?>\n")
				continue
			}
		case xml.StartElement:
			sawRoot = true
		}

		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", err
		}
	}

	if err := enc.Flush(); err != nil {
		return "", err
	}
	if !sawRoot {
		return "", errors.New("document has no root element")
	}
	return buf.String(), nil
}
