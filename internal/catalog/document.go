// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     catalog
// Description: Wire shapes of XML, YAML and JSON catalog documents
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package catalog

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// xmlDocument is the shape of a CloudStack commands.xml file
type xmlDocument struct {
	XMLName  xml.Name     `xml:"commands"`
	Commands []rawCommand `xml:"command"`
}

// document is the shape of a YAML or JSON catalog
type document struct {
	Commands commandSection `json:"commands" yaml:"commands"`
}

type rawCommand struct {
	Name        string      `xml:"name" json:"name" yaml:"name"`
	Description string      `xml:"description" json:"description" yaml:"description"`
	IsAsync     flexBool    `xml:"isAsync" json:"isAsync" yaml:"isAsync"`
	Request     *rawRequest `xml:"request" json:"request" yaml:"request"`
}

type rawRequest struct {
	Args oneOrMany[rawArg] `xml:"arg" json:"arg" yaml:"arg"`
}

type rawArg struct {
	Name        string   `xml:"name" json:"name" yaml:"name"`
	Description string   `xml:"description" json:"description" yaml:"description"`
	Required    flexBool `xml:"required" json:"required" yaml:"required"`
}

// commandSection accepts either a list of commands or an object whose
// "command" key holds one command or a list of them.
type commandSection struct {
	items   []rawCommand
	present bool
}

type commandWrapper struct {
	Command oneOrMany[rawCommand] `json:"command" yaml:"command"`
}

func (s *commandSection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s.present = true
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &s.items)
	}
	var w commandWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.items = w.Command
	return nil
}

func (s *commandSection) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		s.present = true
		return value.Decode(&s.items)
	case yaml.MappingNode:
		s.present = true
		var w commandWrapper
		if err := value.Decode(&w); err != nil {
			return err
		}
		s.items = w.Command
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil
		}
	}
	return fmt.Errorf("line %d: commands must be a list or a mapping", value.Line)
}

// oneOrMany decodes a single object as a one-element list. XML repeats the
// element instead, which the xml package already collects into the slice.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*o = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	default:
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*o = []T{item}
		return nil
	}
}

func (o *oneOrMany[T]) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []T
		if err := value.Decode(&items); err != nil {
			return err
		}
		*o = items
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*o = nil
			return nil
		}
		return fmt.Errorf("line %d: expected a mapping or a list", value.Line)
	default:
		var item T
		if err := value.Decode(&item); err != nil {
			return err
		}
		*o = []T{item}
		return nil
	}
}

// flexBool is true only for a literal true or the string "true"
type flexBool bool

func (b *flexBool) UnmarshalText(text []byte) error {
	*b = flexBool(strings.EqualFold(strings.TrimSpace(string(text)), "true"))
	return nil
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return b.UnmarshalText([]byte(s))
	}
	return b.UnmarshalText(data)
}

func (b *flexBool) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", value.Line)
	}
	return b.UnmarshalText([]byte(value.Value))
}
