package client

import (
	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

// Format is the logical response format requested by the caller. Several
// logical formats share one wire format and differ only in how the body is
// decoded.
type Format string

const (
	FormatJSON       Format = "json"
	FormatObject     Format = "object"
	FormatYAML       Format = "yaml"
	FormatPrettyJSON Format = "prettyjson"
	FormatXML        Format = "xml"
	FormatPrettyXML  Format = "prettyxml"
)

// DefaultFormat is used when a request names no format
const DefaultFormat = FormatJSON

var wireFormats = map[Format]string{
	FormatJSON:       "json",
	FormatObject:     "json",
	FormatYAML:       "json",
	FormatPrettyJSON: "json",
	FormatXML:        "xml",
	FormatPrettyXML:  "xml",
}

// Formats lists the logical formats in display order
func Formats() []Format {
	return []Format{FormatJSON, FormatObject, FormatYAML, FormatPrettyJSON, FormatXML, FormatPrettyXML}
}

// ParseFormat validates a format name. The empty string selects DefaultFormat.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return DefaultFormat, nil
	}
	f := Format(name)
	if _, ok := wireFormats[f]; !ok {
		return "", arcuserr.Newf(arcuserr.CodeInvalidArgument, "unknown response format %q", name).
			WithDetail(arcuserr.DetailFormat, name)
	}
	return f, nil
}

// Wire returns the value sent as the response parameter
func (f Format) Wire() string {
	return wireFormats[f]
}

// Valid reports whether f is a known logical format
func (f Format) Valid() bool {
	_, ok := wireFormats[f]
	return ok
}

func (f Format) String() string {
	return string(f)
}
