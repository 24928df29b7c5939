package strictvalue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"sync"
)

// DefaultPluginSymbol is the exported symbol PluginLoader looks up.
const DefaultPluginSymbol = "AutoFix"

// FixFunc computes a replacement value for a rejected declaration.
type FixFunc func(decl Declaration, fc FixContext) (string, error)

// FixContext is passed to a FixFunc alongside the declaration.
type FixContext struct {
	// Result is the classification that rejected the value.
	Result Result

	// Longhand and LonghandValue are set when the rejected value came from
	// an expanded shorthand.
	Longhand      string
	LonghandValue string

	// Policy is the rule's policy.
	Policy *Policy
}

// Loader resolves a fix reference to a callable.
type Loader interface {
	Load(ref string) (FixFunc, error)
}

// ResolveFix locates the callable for ref.
//
// An inline fix is returned unchanged and an unset reference yields (nil, nil).
// A name is loaded as given, then as a path relative to the working directory.
// When both attempts fail the error is a *ModuleNotFoundError.
func ResolveFix(ref FixRef, loader Loader) (FixFunc, error) {
	if ref.fn != nil {
		return ref.fn, nil
	}
	if ref.name == "" {
		return nil, nil
	}
	if loader == nil {
		return nil, &ModuleNotFoundError{Ref: ref.name, Cause: errors.New("no fix loader configured")}
	}

	fn, directErr := loader.Load(ref.name)
	if directErr == nil {
		return fn, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, &ModuleNotFoundError{
			Ref:      ref.name,
			Attempts: []string{ref.name},
			Cause:    errors.Join(directErr, err),
		}
	}

	local := filepath.Join(cwd, ref.name)
	fn, localErr := loader.Load(local)
	if localErr == nil {
		return fn, nil
	}

	return nil, &ModuleNotFoundError{
		Ref:      ref.name,
		Attempts: []string{ref.name, local},
		Cause:    errors.Join(directErr, localErr),
	}
}

// Registry is a Loader over fixes registered ahead of time by name.
type Registry struct {
	mu    sync.RWMutex
	fixes map[string]FixFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fixes: make(map[string]FixFunc)}
}

// Register adds fn under name. Names must be unique.
func (r *Registry) Register(name string, fn FixFunc) error {
	if name == "" {
		return fmt.Errorf("fix name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("fix %q: function cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fixes[name]; exists {
		return fmt.Errorf("fix %q already registered", name)
	}
	r.fixes[name] = fn
	return nil
}

// Load implements Loader.
func (r *Registry) Load(ref string) (FixFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.fixes[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFixNotRegistered, ref)
	}
	return fn, nil
}

// Names returns the registered names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fixes))
	for name := range r.fixes {
		names = append(names, name)
	}
	return names
}

// PluginLoader loads fixes from Go plugins (.so files) built with
// -buildmode=plugin. The plugin must export Symbol as either a function with
// the FixFunc signature or a FixFunc variable.
type PluginLoader struct {
	Symbol string
}

// Load implements Loader.
func (l PluginLoader) Load(ref string) (FixFunc, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", ref)
	}

	p, err := plugin.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin %s: %w", ref, err)
	}

	symbol := l.Symbol
	if symbol == "" {
		symbol = DefaultPluginSymbol
	}
	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", ref, err)
	}

	switch fn := sym.(type) {
	case func(Declaration, FixContext) (string, error):
		return fn, nil
	case *FixFunc:
		if *fn != nil {
			return *fn, nil
		}
	case *func(Declaration, FixContext) (string, error):
		if *fn != nil {
			return *fn, nil
		}
	}
	return nil, fmt.Errorf("plugin %s: symbol %s has type %T, want FixFunc", ref, symbol, sym)
}

// Loaders tries each Loader in order and returns the first success.
type Loaders []Loader

// Load implements Loader.
func (ls Loaders) Load(ref string) (FixFunc, error) {
	var errs []error
	for _, l := range ls {
		fn, err := l.Load(ref)
		if err == nil {
			return fn, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no loaders for %q", ref)
	}
	return nil, errors.Join(errs...)
}
