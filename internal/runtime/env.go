package runtime

// Environment is one scope in a chain of name bindings.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment creates an empty top-level scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates an empty scope whose lookups fall back to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get looks a name up in this scope, then in each enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if val, ok := env.store[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Set binds name in this scope only, shadowing any outer binding, and
// returns the value it replaced here, if any.
func (e *Environment) Set(name string, val Object) (Object, bool) {
	prev, existed := e.store[name]
	e.store[name] = val
	return prev, existed
}

// Outer returns the enclosing scope, or nil at the top level.
func (e *Environment) Outer() *Environment {
	return e.outer
}
