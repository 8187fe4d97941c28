package runtime

import (
	"fmt"
	"sort"
)

// Environment is one frame of lexical bindings chained to its statically
// enclosing frame.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or overwrites a binding in the current frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the first frame where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}

// Get retrieves a binding, searching outward through the frame chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("Undefined variable '%s'.", name)
}

// Ancestor walks exactly hops parents up. It returns nil if the chain is
// shorter than that.
func (e *Environment) Ancestor(hops int) *Environment {
	env := e
	for i := 0; i < hops && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame hops levels up without searching.
func (e *Environment) GetAt(hops int, name string) (Value, error) {
	env := e.Ancestor(hops)
	if env == nil {
		return nil, fmt.Errorf("Undefined variable '%s'.", name)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, fmt.Errorf("Undefined variable '%s'.", name)
	}
	return v, nil
}

// AssignAt writes name into the frame hops levels up.
func (e *Environment) AssignAt(hops int, name string, value Value) error {
	env := e.Ancestor(hops)
	if env == nil {
		return fmt.Errorf("Undefined variable '%s'.", name)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
