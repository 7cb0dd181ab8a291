package dispatch

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Registry maps operator kinds to closure factories.
//
// It is safe for concurrent use. Once frozen it can no longer change, which is
// how Default is shared across a process.
type Registry struct {
	mu        sync.RWMutex
	factories [kindLast]Factory
	frozen    bool
}

// NewRegistry creates a registry with all built-in indexing operators.
func NewRegistry() *Registry {
	r := &Registry{}

	r.registerReadOps()
	r.registerUpdateOps()
	r.registerSliceOps()

	return r
}

// NewEmptyRegistry creates a registry with no operators.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of built-in operators. It is
// frozen: use NewRegistry for a registry that accepts custom factories.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Freeze()
	})
	return defaultRegistry
}

// Register adds the factory for kind. Registering a kind twice fails with
// ErrDuplicateOperator; use Replace to override a factory on purpose.
func (r *Registry) Register(kind OperatorKind, factory Factory) error {
	return r.set(kind, factory, false)
}

// Replace sets the factory for kind, overriding any existing one.
func (r *Registry) Replace(kind OperatorKind, factory Factory) error {
	return r.set(kind, factory, true)
}

func (r *Registry) set(kind OperatorKind, factory Factory, replace bool) error {
	if !kind.Valid() {
		return errors.Errorf("cannot register invalid operator kind %s", kind)
	}
	if factory == nil {
		return errors.Errorf("cannot register a nil factory for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.Wrapf(ErrRegistryFrozen, "register %s", kind)
	}
	if r.factories[kind] != nil && !replace {
		return errors.Wrapf(ErrDuplicateOperator, "register %s", kind)
	}
	r.factories[kind] = factory
	klog.V(1).Infof("dispatch: registered %s (replace=%v)", kind, replace)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the factory for kind, or an *UnsupportedOperatorError.
func (r *Registry) Lookup(kind OperatorKind) (Factory, error) {
	var factory Factory
	if kind.Valid() {
		r.mu.RLock()
		factory = r.factories[kind]
		r.mu.RUnlock()
	}
	if factory == nil {
		return nil, &UnsupportedOperatorError{Kind: kind}
	}
	return factory, nil
}

// Compile looks up kind and builds its closure for attrs.
func (r *Registry) Compile(ctx *Context, kind OperatorKind, attrs Attributes) (Closure, error) {
	factory, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	closure, err := factory(ctx, attrs.Clone())
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s%s", kind, nodeLabel(attrs.Name))
	}
	klog.V(2).Infof("dispatch: compiled %s%s", kind, nodeLabel(attrs.Name))
	return closure, nil
}

// Kinds returns the registered operator kinds in enum order.
func (r *Registry) Kinds() []OperatorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var kinds []OperatorKind
	for k, f := range r.factories {
		if f != nil {
			kinds = append(kinds, OperatorKind(k))
		}
	}
	return kinds
}

func nodeLabel(name string) string {
	if name == "" {
		return ""
	}
	return " (node " + name + ")"
}
