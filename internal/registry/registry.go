// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     registry
// Description: Groups catalog commands into targets and actions
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package registry turns the flat command list of a catalog into a two level
// tree: targets (singular nouns such as VirtualMachine) holding actions (verbs
// such as list or deploy) bound to the API endpoint.
//
// A Registry is immutable once Build returns and may be shared between
// goroutines without locking.
package registry

import (
	"strings"

	"github.com/atistler/arcus/internal/catalog"
	"github.com/atistler/arcus/internal/naming"
	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

// Action is one invocable operation of a target
type Action struct {
	CommandName  string
	Name         string
	Description  string
	Async        bool
	RequiredArgs []catalog.Argument
	OptionalArgs []catalog.Argument
	EndpointURI  string
}

// Target groups the actions that operate on one resource type
type Target struct {
	name    string
	actions []*Action
	index   map[string]int
}

// Name returns the singular target noun
func (t *Target) Name() string {
	return t.name
}

// Actions returns the actions in catalog order
func (t *Target) Actions() []*Action {
	out := make([]*Action, len(t.actions))
	copy(out, t.actions)
	return out
}

// Action looks an action up by verb, ignoring case
func (t *Target) Action(name string) (*Action, bool) {
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return t.actions[i], true
}

// Registry is the resolved target/action tree of a catalog
type Registry struct {
	targets   []*Target
	byName    map[string]*Target
	byCommand map[string]*Action
	endpoint  string
}

// Build resolves every command and groups the result by target. Targets and
// actions keep first-seen order. When two commands resolve to the same
// (target, action) pair the first one wins.
//
// A command whose name cannot be split into verb and noun fails the build
// with a configuration error.
func Build(commands []catalog.Command, endpointURI string) (*Registry, error) {
	r := &Registry{
		byName:    make(map[string]*Target),
		byCommand: make(map[string]*Action, len(commands)),
		endpoint:  endpointURI,
	}

	for _, cmd := range commands {
		verb, noun, err := naming.Resolve(cmd.Name)
		if err != nil {
			return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "cannot resolve catalog command").
				WithDetail(arcuserr.DetailCommand, cmd.Name)
		}

		target := r.target(noun)
		key := strings.ToLower(verb)
		if _, exists := target.index[key]; exists {
			continue
		}

		action := &Action{
			CommandName:  cmd.Name,
			Name:         verb,
			Description:  cmd.Description,
			Async:        cmd.Async,
			RequiredArgs: cmd.RequiredArgs(),
			OptionalArgs: cmd.OptionalArgs(),
			EndpointURI:  endpointURI,
		}
		target.index[key] = len(target.actions)
		target.actions = append(target.actions, action)

		if _, exists := r.byCommand[strings.ToLower(cmd.Name)]; !exists {
			r.byCommand[strings.ToLower(cmd.Name)] = action
		}
	}

	return r, nil
}

func (r *Registry) target(noun string) *Target {
	key := strings.ToLower(noun)
	if t, ok := r.byName[key]; ok {
		return t
	}
	t := &Target{name: noun, index: make(map[string]int)}
	r.byName[key] = t
	r.targets = append(r.targets, t)
	return t
}

// Endpoint returns the URI every action is bound to
func (r *Registry) Endpoint() string {
	return r.endpoint
}

// Targets returns all targets in first-seen order
func (r *Registry) Targets() []*Target {
	out := make([]*Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Target looks a target up by name, ignoring case
func (r *Registry) Target(name string) (*Target, bool) {
	t, ok := r.byName[strings.ToLower(name)]
	return t, ok
}

// Action returns the action for a (target, action) pair or an
// UNKNOWN_ACTION error
func (r *Registry) Action(target, action string) (*Action, error) {
	t, ok := r.Target(target)
	if !ok {
		return nil, arcuserr.Newf(arcuserr.CodeUnknownAction, "unknown target %q", target)
	}
	a, ok := t.Action(action)
	if !ok {
		return nil, arcuserr.Newf(arcuserr.CodeUnknownAction, "target %s has no action %q", t.name, action)
	}
	return a, nil
}

// Command looks an action up by its catalog command name, ignoring case
func (r *Registry) Command(name string) (*Action, bool) {
	a, ok := r.byCommand[strings.ToLower(name)]
	return a, ok
}

// Len returns the number of actions
func (r *Registry) Len() int {
	n := 0
	for _, t := range r.targets {
		n += len(t.actions)
	}
	return n
}
