package registry

import (
	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

// ArgNames returns required then optional argument names
func (a *Action) ArgNames() []string {
	names := make([]string, 0, len(a.RequiredArgs)+len(a.OptionalArgs))
	for _, arg := range a.RequiredArgs {
		names = append(names, arg.Name)
	}
	for _, arg := range a.OptionalArgs {
		names = append(names, arg.Name)
	}
	return names
}

// RequiredArgNames returns the required argument names in declaration order
func (a *Action) RequiredArgNames() []string {
	names := make([]string, 0, len(a.RequiredArgs))
	for _, arg := range a.RequiredArgs {
		names = append(names, arg.Name)
	}
	return names
}

// Accepts reports whether name is a declared argument
func (a *Action) Accepts(name string) bool {
	for _, arg := range a.RequiredArgs {
		if arg.Name == name {
			return true
		}
	}
	for _, arg := range a.OptionalArgs {
		if arg.Name == name {
			return true
		}
	}
	return false
}

// CheckArgs validates params against the declared arguments. Unknown keys are
// reported before missing required ones.
func (a *Action) CheckArgs(params map[string]string) error {
	var invalid []string
	for key := range params {
		if !a.Accepts(key) {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		return arcuserr.InvalidArguments(invalid).WithDetail(arcuserr.DetailCommand, a.CommandName)
	}

	var missing []string
	for _, arg := range a.RequiredArgs {
		if _, ok := params[arg.Name]; !ok {
			missing = append(missing, arg.Name)
		}
	}
	if len(missing) > 0 {
		return arcuserr.MissingArguments(missing).WithDetail(arcuserr.DetailCommand, a.CommandName)
	}
	return nil
}
