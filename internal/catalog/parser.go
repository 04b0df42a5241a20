// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     catalog
// Description: Parses XML, YAML and JSON command catalogs into descriptors
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package catalog

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

// Format identifies the encoding of a catalog document
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the catalog format from the file extension.
// Unknown extensions are treated as XML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatXML
	}
}

// Parse turns a raw catalog document into command descriptors. Every
// command gets the response argument appended.
func Parse(data []byte, format Format) ([]Command, error) {
	var raw []rawCommand

	switch format {
	case FormatXML:
		var doc xmlDocument
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "malformed xml catalog")
		}
		raw = doc.Commands

	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "malformed yaml catalog")
		}
		if !doc.Commands.present {
			return nil, arcuserr.Configuration("yaml catalog has no commands section")
		}
		raw = doc.Commands.items

	case FormatJSON:
		var doc document
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		if err := dec.Decode(&doc); err != nil {
			return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "malformed json catalog")
		}
		if !doc.Commands.present {
			return nil, arcuserr.Configuration("json catalog has no commands section")
		}
		raw = doc.Commands.items

	default:
		return nil, arcuserr.Configuration("unsupported catalog format %q", format)
	}

	commands := make([]Command, 0, len(raw))
	for i, rc := range raw {
		cmd, err := rc.toCommand()
		if err != nil {
			return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "catalog entry "+strconv.Itoa(i+1))
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Load reads and parses a catalog file without consulting the cache
func Load(path string) (*Catalog, error) {
	data, err := readCatalog(path)
	if err != nil {
		return nil, err
	}
	commands, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Source:      path,
		Fingerprint: Fingerprint(data),
		Commands:    commands,
	}, nil
}

func readCatalog(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "cannot read catalog "+path)
	}
	return data, nil
}

func (rc rawCommand) toCommand() (Command, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return Command{}, arcuserr.Configuration("command has no name")
	}

	var rawArgs []rawArg
	if rc.Request != nil {
		rawArgs = rc.Request.Args
	}

	args := make([]Argument, 0, len(rawArgs)+1)
	hasResponse := false
	for _, ra := range rawArgs {
		argName := strings.TrimSpace(ra.Name)
		if argName == "" {
			return Command{}, arcuserr.Configuration("command %s has an argument without a name", name)
		}
		if argName == ResponseArgument.Name {
			hasResponse = true
		}
		args = append(args, Argument{
			Name:        argName,
			Description: strings.TrimSpace(ra.Description),
			Required:    bool(ra.Required),
		})
	}
	if !hasResponse {
		args = append(args, ResponseArgument)
	}

	return Command{
		Name:        name,
		Description: strings.TrimSpace(rc.Description),
		Async:       bool(rc.IsAsync),
		Arguments:   args,
	}, nil
}
