package protocol

import "sort"

// Environment is an agent's local key/value store: sensors and markers such
// as "leader", plus whatever the program keeps between rounds. It is never
// sent to neighbours.
type Environment struct {
	values map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{
		values: make(map[string]Value),
	}
}

func NewEnvironmentFrom(values map[string]Value) *Environment {
	env := NewEnvironment()
	for key, value := range values {
		env.Put(key, value)
	}

	return env
}

func (env *Environment) Get(key string) (Value, bool) {
	value, ok := env.values[key]
	return value, ok
}

func (env *Environment) Has(key string) bool {
	_, ok := env.values[key]
	return ok
}

// Put ignores invalid values.
func (env *Environment) Put(key string, value Value) {
	if !value.IsValid() {
		return
	}

	env.values[key] = value
}

func (env *Environment) Remove(key string) {
	delete(env.values, key)
}

func (env *Environment) Keys() []string {
	keys := make([]string, 0, len(env.values))
	for key := range env.values {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

func (env *Environment) Clone() *Environment {
	return NewEnvironmentFrom(env.values)
}

// GetBool is false for a missing key or a non bool value.
func (env *Environment) GetBool(key string) bool {
	value, ok := env.values[key]
	if !ok {
		return false
	}

	b, _ := value.AsBool()
	return b
}
