package graph

import (
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"

	"github.com/born-ml/subtensor/internal/dispatch"
)

// Compiler turns Programs into Executables for one backend.
//
// Nodes with the same kind and static attributes share one closure. Shared
// closures are kept in an LRU cache that lives as long as the Compiler, so
// repeated compilations of similar programs skip the factories.
type Compiler struct {
	registry *dispatch.Registry
	ctx      *dispatch.Context
	cache    *lru.Cache[string, dispatch.Closure]
}

// NewCompiler creates a compiler. cacheSize 0 disables closure sharing.
func NewCompiler(registry *dispatch.Registry, backend dispatch.Backend, cacheSize int) (*Compiler, error) {
	if registry == nil {
		registry = dispatch.Default()
	}
	c := &Compiler{registry: registry, ctx: &dispatch.Context{Backend: backend}}
	if cacheSize > 0 {
		cache, err := lru.New[string, dispatch.Closure](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create closure cache")
		}
		c.cache = cache
	}
	return c, nil
}

// Compile validates p and builds a closure for every node. It reports every
// failing node, not just the first one.
func (c *Compiler) Compile(p *Program) (*Executable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	exe := &Executable{
		ID:      uuid.New(),
		program: p,
		steps:   make([]step, 0, len(p.Nodes)),
	}
	var errs error
	for _, node := range p.Nodes {
		closure, err := c.closure(node)
		if err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "node %q", node.Name))
			continue
		}
		exe.steps = append(exe.steps, step{name: node.Name, kind: node.Kind, inputs: node.Inputs, closure: closure})
	}
	if errs != nil {
		return nil, errors.WithMessagef(errs, "failed to compile program %q", p.Name)
	}
	klog.V(1).Infof("graph: compiled program %q (%d nodes) as %s", p.Name, len(p.Nodes), exe.ID)
	return exe, nil
}

func (c *Compiler) closure(node Node) (dispatch.Closure, error) {
	if c.cache == nil {
		return c.registry.Compile(c.ctx, node.Kind, node.Attrs)
	}
	// Shared closures must not carry a node name: errors are labelled by Run.
	attrs := node.Attrs
	attrs.Name = ""
	key := cacheKey(node.Kind, attrs)
	if closure, ok := c.cache.Get(key); ok {
		klog.V(2).Infof("graph: reusing closure for %s", key)
		return closure, nil
	}
	closure, err := c.registry.Compile(c.ctx, node.Kind, attrs)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, closure)
	return closure, nil
}

// CacheLen returns the number of cached closures.
func (c *Compiler) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func cacheKey(kind dispatch.OperatorKind, attrs dispatch.Attributes) string {
	var sb strings.Builder
	sb.WriteString(kind.String())
	sb.WriteString("[")
	sb.WriteString(attrs.Spec.String())
	sb.WriteString("]")
	if attrs.ValueBroadcastable != nil {
		sb.WriteString("/")
		for _, b := range attrs.ValueBroadcastable {
			if b {
				sb.WriteByte('T')
			} else {
				sb.WriteByte('F')
			}
		}
	}
	return sb.String()
}
