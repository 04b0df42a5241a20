// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     naming
// Description: Derives (action, target) pairs from camelCase command names
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package naming maps a catalog command name such as listVirtualMachines to
// the action verb ("list") and the singular target noun ("VirtualMachine")
// the CLI groups it under.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// ErrUnresolvable is returned for names without a verb/noun boundary
var ErrUnresolvable = errors.New("command name has no action/target boundary")

// userTarget receives the session commands that carry no noun of their own
const userTarget = "User"

var sessionVerbs = map[string]bool{
	"login":  true,
	"logout": true,
}

// Resolve splits name at its first uppercase letter. The prefix is the
// action, the remainder singularised is the target. The login and logout
// actions always resolve to the User target, with or without a noun.
//
// On failure the returned action is the whole name and target is empty.
func Resolve(name string) (action, target string, err error) {
	if sessionVerbs[name] {
		return name, userTarget, nil
	}

	idx := strings.IndexFunc(name, unicode.IsUpper)
	if idx <= 0 {
		return name, "", fmt.Errorf("%w: %q", ErrUnresolvable, name)
	}

	action = name[:idx]
	if sessionVerbs[action] {
		return action, userTarget, nil
	}
	return action, Singular(name[idx:]), nil
}

// Singular returns the English singular of a CamelCase noun
func Singular(noun string) string {
	return inflection.Singular(noun)
}
