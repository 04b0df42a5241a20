// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     catalog
// Description: Command descriptors parsed from the API command catalog
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package catalog

// ResponseArgument is the argument appended to every command. It selects the
// logical response format and is translated to a wire format before sending.
var ResponseArgument = Argument{
	Name:        "response",
	Description: "valid response types are yaml, xml, prettyxml, json, prettyjson (json is default)",
	Required:    false,
}

// Argument describes one request parameter of a command
type Argument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Command describes one remote operation as declared in the catalog
type Command struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Async       bool       `json:"isAsync"`
	Arguments   []Argument `json:"arguments"`
}

// RequiredArgs returns the required arguments in declaration order
func (c Command) RequiredArgs() []Argument {
	return c.partition(true)
}

// OptionalArgs returns the optional arguments in declaration order
func (c Command) OptionalArgs() []Argument {
	return c.partition(false)
}

// ArgNames returns the names of all arguments in declaration order
func (c Command) ArgNames() []string {
	names := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		names[i] = a.Name
	}
	return names
}

func (c Command) partition(required bool) []Argument {
	out := make([]Argument, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		if a.Required == required {
			out = append(out, a)
		}
	}
	return out
}

// Catalog is a parsed command catalog
type Catalog struct {
	// Path the catalog was read from
	Source string

	// Hex MD5 of the catalog bytes
	Fingerprint string

	Commands []Command

	// True when Commands came from the on-disk cache
	FromCache bool
}
