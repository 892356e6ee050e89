package params

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Environment is the read-only source the injector pulls contextual values
// from. *env.Config satisfies it.
type Environment interface {
	Lookup(key string) (string, bool)
}

// Pattern describes how the parameter set for one operation is completed.
type Pattern struct {
	// Path is the endpoint path this pattern belongs to. Used for the
	// best-effort substring lookup when the operation name is unknown.
	Path string
	// Required lists parameters the remote API insists on. A missing required
	// parameter produces a warning, never an abort; the API is the authority.
	Required []string
	// Optional lists parameters the operation understands beyond Required.
	Optional []string
	// AutoInject maps parameter names to environment keys consulted when the
	// caller did not supply the parameter.
	AutoInject map[string]string
	// Defaults fills parameters still unset after auto-injection.
	Defaults map[string]string
}

// Wildcard is the registry key of the fallback pattern applied to endpoints
// with no specific entry.
const Wildcard = "*"

// Registry holds the operation → Pattern table. Registration is additive
// only; patterns are never removed or replaced.
type Registry struct {
	mu       sync.RWMutex
	patterns map[string]Pattern
}

// NewRegistry returns a registry seeded with the built-in pattern table for
// the platform's query endpoints plus the wildcard fallback.
func NewRegistry() *Registry {
	r := &Registry{patterns: make(map[string]Pattern, len(defaultPatterns))}
	for op, p := range defaultPatterns {
		r.patterns[op] = p
	}
	return r
}

// Register teaches the registry a new operation. Existing entries, including
// the wildcard, cannot be redefined.
func (r *Registry) Register(operation string, p Pattern) error {
	if operation == "" {
		return fmt.Errorf("params: empty operation name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.patterns[operation]; exists {
		return fmt.Errorf("params: operation %q already registered", operation)
	}
	r.patterns[operation] = p
	return nil
}

// Pattern returns the pattern registered for an operation, if any.
func (r *Registry) Pattern(operation string) (Pattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patterns[operation]
	return p, ok
}

// Operations returns all registered operation names, sorted, wildcard excluded.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]string, 0, len(r.patterns))
	for op := range r.patterns {
		if op == Wildcard {
			continue
		}
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// lookup resolves a pattern: exact operation match first, then a best-effort
// substring match of registered paths against the endpoint, then the wildcard.
func (r *Registry) lookup(endpoint, operation string) Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.patterns[operation]; ok {
		return p
	}

	// Best-effort path: deliberately separate from the exact-match path above.
	// Longest registered path wins so "/event/query" beats "/event".
	var best Pattern
	bestLen := 0
	for op, p := range r.patterns {
		if op == Wildcard || p.Path == "" {
			continue
		}
		if strings.Contains(endpoint, p.Path) && len(p.Path) > bestLen {
			best = p
			bestLen = len(p.Path)
		}
	}
	if bestLen > 0 {
		return best
	}

	return r.patterns[Wildcard]
}

// Result is the outcome of one injection pass.
type Result struct {
	// Final is the parameter map to send.
	Final map[string]string
	// Injected names the parameters the injector added, sorted. Parameters
	// the caller supplied are never listed here.
	Injected []string
	// Warnings describes required parameters that could not be satisfied.
	// Advisory only; the request proceeds and the API makes the final call.
	Warnings []string
}

// Injector merges contextual and default parameters into caller-supplied
// parameter maps. Caller values always win over injected ones; that rule is
// what lets a one-off query target a different program or institution.
type Injector struct {
	registry *Registry
	env      Environment
}

// NewInjector creates an Injector over the given registry and environment.
func NewInjector(registry *Registry, env Environment) *Injector {
	return &Injector{registry: registry, env: env}
}

// Inject produces the final parameter map for a call to endpoint/operation.
// userParams is not mutated.
func (i *Injector) Inject(endpoint, operation string, userParams map[string]string) Result {
	pattern := i.registry.lookup(endpoint, operation)

	final := make(map[string]string, len(userParams)+len(pattern.AutoInject)+len(pattern.Defaults))
	for k, v := range userParams {
		final[k] = v
	}

	var injected []string
	var warnings []string

	for name, envKey := range pattern.AutoInject {
		if _, set := final[name]; set {
			continue
		}
		value, ok := i.env.Lookup(envKey)
		if !ok {
			// An unconfigured source is only worth a warning when the
			// parameter is required; optional context stays silently absent.
			if containsName(pattern.Required, name) {
				warnings = append(warnings, fmt.Sprintf("no environment value %q available for parameter %q", envKey, name))
			}
			continue
		}
		final[name] = value
		injected = append(injected, name)
	}

	for name, value := range pattern.Defaults {
		if _, set := final[name]; set {
			continue
		}
		final[name] = value
		injected = append(injected, name)
	}

	for _, name := range pattern.Required {
		if _, set := final[name]; !set {
			warnings = append(warnings, fmt.Sprintf("required parameter %q is missing", name))
		}
	}

	sort.Strings(injected)
	sort.Strings(warnings)

	return Result{Final: final, Injected: injected, Warnings: warnings}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
