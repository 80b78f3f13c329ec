package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfcore/core"
)

// DefaultMaxDepth bounds reference chains and deep resolution
const DefaultMaxDepth = 100

// ErrMaxDepth is returned when resolution nests deeper than the limit
var ErrMaxDepth = errors.New("maximum resolution depth exceeded")

// ObjectResolver resolves indirect references in PDF objects.
// It can recursively resolve references in dictionaries and arrays.
// It holds no per-call state, so one resolver may be shared between
// goroutines as long as the underlying reader is safe for that.
type ObjectResolver struct {
	reader   core.ReferenceResolver
	maxDepth int
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader core.ReferenceResolver, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// walk carries the state of one top-level call. active holds the
// references being expanded; done holds finished expansions, so an
// object shared by many branches is expanded once per call.
type walk struct {
	r      *ObjectResolver
	active map[core.ObjectID]bool
	done   map[core.ObjectID]core.Object
}

func (r *ObjectResolver) newWalk() *walk {
	return &walk{
		r:      r,
		active: make(map[core.ObjectID]bool),
		done:   make(map[core.ObjectID]core.Object),
	}
}

// Resolve follows a chain of indirect references to the first direct
// object. Dictionaries and arrays are returned as they are. A
// reference back into the chain is an error.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.newWalk().follow(obj, 0)
}

// ResolveDeep recursively resolves all indirect references in
// dictionaries, arrays and stream dictionaries. A reference to an object
// that is already being expanded further up the tree is left in place,
// so back-links such as /Parent do not loop.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.newWalk().deep(obj, 0)
}

// ResolveReference resolves a single indirect reference
// This is a shallow resolution - it follows reference chains but doesn't
// expand containers.
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.Resolve(ref)
}

// follow resolves references until a direct object is reached
func (w *walk) follow(obj core.Object, depth int) (core.Object, error) {
	seen := make(map[core.ObjectID]bool)
	for {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if depth >= w.r.maxDepth {
			return nil, fmt.Errorf("reference %s: %w (%d)", ref, ErrMaxDepth, w.r.maxDepth)
		}
		if seen[ref.ID()] {
			return nil, fmt.Errorf("circular reference detected for object %s", ref)
		}
		seen[ref.ID()] = true

		resolved, err := w.r.reader.ResolveReference(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s: %w", ref, err)
		}
		if resolved == nil {
			resolved = core.Null{}
		}
		obj = resolved
		depth++
	}
}

func (w *walk) deep(obj core.Object, depth int) (core.Object, error) {
	if depth >= w.r.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, w.r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		id := v.ID()
		if obj, ok := w.done[id]; ok {
			return obj, nil
		}
		if w.active[id] {
			return v, nil
		}
		w.active[id] = true
		defer delete(w.active, id)

		resolved, err := w.follow(v, depth)
		if err != nil {
			return nil, err
		}
		expanded, err := w.deep(resolved, depth+1)
		if err != nil {
			return nil, err
		}
		w.done[id] = expanded
		return expanded, nil

	case core.Dict:
		resolved := make(core.Dict, len(v))
		for key, value := range v {
			resolvedValue, err := w.deep(value, depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			resolved[key] = resolvedValue
		}
		return resolved, nil

	case core.Array:
		resolved := make(core.Array, len(v))
		for i, elem := range v {
			resolvedElem, err := w.deep(elem, depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = resolvedElem
		}
		return resolved, nil

	case *core.Stream:
		resolvedDict, err := w.deep(v.Dict, depth+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}

		dict, ok := resolvedDict.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("stream dict resolved to %T", resolvedDict)
		}
		return &core.Stream{Dict: dict, Data: v.Data}, nil

	default:
		// Primitive types don't need resolution
		return obj, nil
	}
}
