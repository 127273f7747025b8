package expr

import "github.com/arthur-debert/rigkit/pkg/types"

// Env resolves identifiers while an expression is evaluated
type Env interface {
	Lookup(name string) (Value, bool)
}

// Vars is a fixed variable table, used for sentinels such as Character or #
type Vars map[string]Value

// Lookup implements Env
func (v Vars) Lookup(name string) (Value, bool) {
	val, ok := v[name]
	return val, ok
}

// ScopeEnv resolves identifiers against property scopes, first scope first
type ScopeEnv []*types.Scope

// Lookup implements Env
func (s ScopeEnv) Lookup(name string) (Value, bool) {
	for _, scope := range s {
		if p, ok := scope.Get(name); ok {
			return FromProperty(p)
		}
	}
	return Unknown, false
}

type chain []Env

func (c chain) Lookup(name string) (Value, bool) {
	for _, env := range c {
		if env == nil {
			continue
		}
		if v, ok := env.Lookup(name); ok {
			return v, true
		}
	}
	return Unknown, false
}

// Chain returns an Env that consults envs in order
func Chain(envs ...Env) Env {
	return chain(envs)
}
