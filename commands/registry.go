package commands

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the command table. It is built once at startup and only read afterwards.
type Registry struct {
	caseInsensitive bool
	commands        []*Descriptor
	byName          map[string]*Descriptor
}

// NewRegistry indexes cmds by name and alias. Names and aliases must be unique across the
// table, compared case-insensitively when caseInsensitive is set.
func NewRegistry(caseInsensitive bool, cmds ...*Descriptor) (*Registry, error) {
	r := &Registry{
		caseInsensitive: caseInsensitive,
		byName:          make(map[string]*Descriptor),
	}
	for _, cmd := range cmds {
		if cmd == nil || cmd.Name == "" {
			return nil, fmt.Errorf("command without a name")
		}
		if cmd.Handler == nil {
			return nil, fmt.Errorf("command %s has no handler", cmd.Name)
		}
		if cmd.Kinds == 0 {
			return nil, fmt.Errorf("command %s has no invocation kind", cmd.Name)
		}
		for _, key := range append([]string{cmd.Name}, cmd.Aliases...) {
			k := r.key(key)
			if other, exists := r.byName[k]; exists {
				return nil, fmt.Errorf("command %s: name %q already used by %s", cmd.Name, key, other.Name)
			}
			r.byName[k] = cmd
		}
		r.commands = append(r.commands, cmd)
	}
	return r, nil
}

func (r *Registry) key(name string) string {
	if r.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	cmd, ok := r.byName[r.key(name)]
	return cmd, ok
}

// Commands returns the table in registration order.
func (r *Registry) Commands() []*Descriptor {
	out := make([]*Descriptor, len(r.commands))
	copy(out, r.commands)
	return out
}

// Categories groups the table by category, sorted by category name.
func (r *Registry) Categories() (names []string, grouped map[string][]*Descriptor) {
	grouped = make(map[string][]*Descriptor)
	for _, cmd := range r.commands {
		cat := cmd.Category
		if cat == "" {
			cat = "General"
		}
		if _, seen := grouped[cat]; !seen {
			names = append(names, cat)
		}
		grouped[cat] = append(grouped[cat], cmd)
	}
	sort.Strings(names)
	return names, grouped
}
