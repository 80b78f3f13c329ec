package pages

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/model"
)

// DefaultMaxDepth bounds how deeply page tree nodes may nest
const DefaultMaxDepth = 64

// ObjectResolver interface for resolving indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{
		dict:     dict,
		resolver: resolver,
	}
}

// Pages returns the page tree root
func (c *Catalog) Pages() (core.Dict, error) {
	pagesRef := c.dict.Get("Pages")
	if pagesRef == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}

	// Resolve reference if needed
	pagesObj, err := c.resolver.Resolve(pagesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", pagesObj)
	}

	return pagesDict, nil
}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	maxDepth int
}

// Option configures a PageTree
type Option func(*PageTree)

// WithMaxDepth bounds the nesting of Pages nodes
func WithMaxDepth(depth int) Option {
	return func(t *PageTree) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, resolver ObjectResolver, opts ...Option) *PageTree {
	t := &PageTree{
		root:     root,
		resolver: resolver,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Count returns the total number of pages. The root's /Count is trusted
// when present; otherwise the tree is walked.
func (t *PageTree) Count() int {
	if count, ok := t.root.GetInt("Count"); ok && count >= 0 {
		return int(count)
	}
	pages, _ := t.Pages()
	return len(pages)
}

// Pages flattens the tree into document order. Nodes that cannot be
// read are skipped; their problems are joined into the returned error
// while every reachable page is still returned. Each indirect node is
// visited once, so cyclic /Kids terminate.
func (t *PageTree) Pages() ([]*Page, error) {
	w := &traversal{tree: t, visited: make(map[core.ObjectID]bool)}
	w.node(t.root, nil, 0)
	return w.pages, errors.Join(w.errs...)
}

// traversal carries the state of one walk over the tree
type traversal struct {
	tree    *PageTree
	visited map[core.ObjectID]bool
	pages   []*Page
	errs    []error
}

// node visits a page tree node. ancestors lists the Pages nodes above
// it, nearest first, for inheritable attributes.
func (w *traversal) node(node core.Dict, ancestors []core.Dict, depth int) {
	typeName, _ := node.GetName("Type")

	switch {
	case typeName == "Page":
		w.pages = append(w.pages, NewPage(node, ancestors, w.tree.resolver))

	case typeName == "Pages" || node.Has("Kids"):
		if depth >= w.tree.maxDepth {
			w.errs = append(w.errs, fmt.Errorf("page tree deeper than %d", w.tree.maxDepth))
			return
		}

		kidsResolved, err := w.tree.resolver.Resolve(node.Get("Kids"))
		if err != nil {
			w.errs = append(w.errs, fmt.Errorf("failed to resolve /Kids: %w", err))
			return
		}
		kids, ok := kidsResolved.(core.Array)
		if !ok {
			w.errs = append(w.errs, fmt.Errorf("invalid /Kids type: %T", kidsResolved))
			return
		}

		inherited := make([]core.Dict, 0, len(ancestors)+1)
		inherited = append(inherited, node)
		inherited = append(inherited, ancestors...)

		for i, kidObj := range kids {
			if ref, ok := kidObj.(core.IndirectRef); ok {
				if w.visited[ref.ID()] {
					w.errs = append(w.errs, fmt.Errorf("kid %d: page tree node %s visited twice", i, ref))
					continue
				}
				w.visited[ref.ID()] = true
			}

			kidResolved, err := w.tree.resolver.Resolve(kidObj)
			if err != nil {
				w.errs = append(w.errs, fmt.Errorf("failed to resolve kid %d: %w", i, err))
				continue
			}
			kidDict, ok := kidResolved.(core.Dict)
			if !ok {
				w.errs = append(w.errs, fmt.Errorf("invalid kid type: %T", kidResolved))
				continue
			}

			w.node(kidDict, inherited, depth+1)
		}
	}
}

// Page represents a single PDF page
type Page struct {
	dict      core.Dict
	ancestors []core.Dict // Pages nodes above the page, nearest first
	resolver  ObjectResolver
}

// NewPage creates a new page from a dictionary
func NewPage(dict core.Dict, ancestors []core.Dict, resolver ObjectResolver) *Page {
	return &Page{
		dict:      dict,
		ancestors: ancestors,
		resolver:  resolver,
	}
}

// Dict returns the page dictionary
func (p *Page) Dict() core.Dict {
	return p.dict
}

// inherited looks up key on the page, then on each ancestor
func (p *Page) inherited(key string) core.Object {
	if obj := p.dict.Get(key); obj != nil {
		return obj
	}
	for _, a := range p.ancestors {
		if obj := a.Get(key); obj != nil {
			return obj
		}
	}
	return nil
}

// MediaBox returns the page media box
// This is inheritable
func (p *Page) MediaBox() (model.BBox, error) {
	return p.getBox("MediaBox")
}

// CropBox returns the page crop box
// This is inheritable, defaults to MediaBox if not present
func (p *Page) CropBox() (model.BBox, error) {
	box, err := p.getBox("CropBox")
	if err != nil {
		// CropBox defaults to MediaBox
		return p.MediaBox()
	}
	return box, nil
}

// getBox retrieves a box attribute (inheritable)
func (p *Page) getBox(name string) (model.BBox, error) {
	boxObj := p.inherited(name)
	if boxObj == nil {
		return model.BBox{}, fmt.Errorf("%s not found", name)
	}

	// Resolve if reference
	boxResolved, err := p.resolver.Resolve(boxObj)
	if err != nil {
		return model.BBox{}, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	boxArr, ok := boxResolved.(core.Array)
	if !ok {
		return model.BBox{}, fmt.Errorf("invalid %s type: %T", name, boxResolved)
	}
	if len(boxArr) != 4 {
		return model.BBox{}, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(boxArr))
	}

	coords := make([]float64, 4)
	for i := range boxArr {
		v, err := p.resolver.Resolve(boxArr[i])
		if err != nil {
			return model.BBox{}, fmt.Errorf("failed to resolve %s element %d: %w", name, i, err)
		}
		f, ok := core.ToFloat(v)
		if !ok {
			return model.BBox{}, fmt.Errorf("invalid %s element type: %T", name, v)
		}
		coords[i] = f
	}

	return model.NewBBoxFromPoints(
		model.Point{X: coords[0], Y: coords[1]},
		model.Point{X: coords[2], Y: coords[3]},
	), nil
}

// Resources returns the page resources dictionary
// This is inheritable
func (p *Page) Resources() (core.Dict, error) {
	resourcesObj := p.inherited("Resources")
	if resourcesObj == nil {
		return nil, nil
	}

	// Resolve if reference
	resourcesResolved, err := p.resolver.Resolve(resourcesObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}

	switch v := resourcesResolved.(type) {
	case core.Dict:
		return v, nil
	case core.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("invalid Resources type: %T", resourcesResolved)
}

// Contents returns the page content streams in order. Entries that are
// null or dangling are skipped; entries of any other type are reported
// in the error while the streams found are still returned.
func (p *Page) Contents() ([]*core.Stream, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil // Contents is optional
	}

	// Resolve if reference
	contentsResolved, err := p.resolver.Resolve(contentsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	// Contents can be a single stream or array of streams
	switch v := contentsResolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Null:
		return nil, nil
	case core.Array:
		var streams []*core.Stream
		var errs []error
		for i, elem := range v {
			resolved, err := p.resolver.Resolve(elem)
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to resolve contents[%d]: %w", i, err))
				continue
			}
			switch s := resolved.(type) {
			case *core.Stream:
				streams = append(streams, s)
			case core.Null:
			default:
				errs = append(errs, fmt.Errorf("contents[%d] is %T, not a stream", i, resolved))
			}
		}
		return streams, errors.Join(errs...)
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", contentsResolved)
	}
}

// Rotate returns the page rotation (0, 90, 180, or 270)
// This is inheritable
func (p *Page) Rotate() int {
	rotateObj := p.inherited("Rotate")
	if rotateObj == nil {
		return 0 // Default
	}

	rotateObj, err := p.resolver.Resolve(rotateObj)
	if err != nil {
		return 0
	}
	if rotate, ok := rotateObj.(core.Int); ok {
		r := int(rotate) % 360
		if r < 0 {
			r += 360
		}
		return r
	}

	return 0
}

// Width returns the page width (from MediaBox)
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box.Width, nil
}

// Height returns the page height (from MediaBox)
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box.Height, nil
}
