package reader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/font"
	"github.com/tsawler/pdfcore/logger"
	"github.com/tsawler/pdfcore/pages"
	"github.com/tsawler/pdfcore/resolver"
)

// Document is a parsed PDF. It is read-only after Parse, so its methods
// may be called from several goroutines.
type Document struct {
	version  string
	objects  map[core.ObjectID]core.Object
	trailer  core.Dict
	xref     *core.XRefTable
	config   Config
	log      logger.Logger
	resolver *resolver.ObjectResolver

	pagesOnce sync.Once
	pageList  []*pages.Page
	pagesErr  error
}

// Ensure Document implements the resolver interfaces used downstream
var (
	_ core.ReferenceResolver = (*Document)(nil)
	_ pages.ObjectResolver   = (*Document)(nil)
)

func newDocument(version string, p *docParser) *Document {
	d := &Document{
		version: version,
		objects: p.objects,
		trailer: p.xref.Trailer,
		xref:    p.xref,
		config:  p.cfg,
		log:     p.log,
	}
	d.resolver = resolver.NewResolver(d, resolver.WithMaxDepth(p.cfg.MaxDepth))
	return d
}

// Version returns the header version, e.g. "1.7"
func (d *Document) Version() string {
	return d.version
}

// Trailer returns the merged trailer dictionary
func (d *Document) Trailer() core.Dict {
	return d.trailer
}

// XRef returns the merged cross-reference table
func (d *Document) XRef() *core.XRefTable {
	return d.xref
}

// Config returns the configuration the document was parsed with
func (d *Document) Config() Config {
	return d.config
}

// NumObjects returns the number of objects in the table
func (d *Document) NumObjects() int {
	return len(d.objects)
}

// Objects returns every object ID in the table, ordered by number and
// then generation.
func (d *Document) Objects() []core.ObjectID {
	ids := make([]core.ObjectID, 0, len(d.objects))
	for id := range d.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Number != ids[j].Number {
			return ids[i].Number < ids[j].Number
		}
		return ids[i].Generation < ids[j].Generation
	})
	return ids
}

// GetObject looks up an object by ID
func (d *Document) GetObject(id core.ObjectID) (core.Object, bool) {
	obj, ok := d.objects[id]
	return obj, ok
}

// ResolveReference returns the object ref points at. A reference to an
// object that is not in the table resolves to null.
func (d *Document) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if obj, ok := d.objects[ref.ID()]; ok {
		return obj, nil
	}
	return core.Null{}, nil
}

// Resolve follows obj through any chain of references
func (d *Document) Resolve(obj core.Object) (core.Object, error) {
	return d.resolver.Resolve(obj)
}

// ResolveDeep resolves obj and every reference nested inside it
func (d *Document) ResolveDeep(obj core.Object) (core.Object, error) {
	return d.resolver.ResolveDeep(obj)
}

// Catalog returns the document catalog named by the trailer's /Root
func (d *Document) Catalog() (core.Dict, error) {
	obj, err := d.Resolve(d.trailer.Get("Root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Root: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is %T, not a dictionary", obj)
	}
	return catalog, nil
}

// Info returns the document information dictionary, or nil when the
// trailer has none.
func (d *Document) Info() (core.Dict, error) {
	if !d.trailer.Has("Info") {
		return nil, nil
	}
	obj, err := d.Resolve(d.trailer.Get("Info"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Info: %w", err)
	}
	switch info := obj.(type) {
	case core.Dict:
		return info, nil
	case core.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("info is %T, not a dictionary", obj)
	}
}

// Metadata returns the string entries of the info dictionary as text.
// UTF-16 values with a byte order mark are decoded; anything else is
// read as Latin-1.
func (d *Document) Metadata() (map[string]string, error) {
	info, err := d.Info()
	if err != nil || info == nil {
		return nil, err
	}
	meta := make(map[string]string)
	for _, key := range info.Keys() {
		obj, err := d.Resolve(info.Get(key))
		if err != nil {
			continue
		}
		if raw, _, ok := core.StringBytes(obj); ok {
			meta[key] = font.DecodeTextString(raw)
		}
	}
	return meta, nil
}

// DecodeStream runs a stream's payload through its filter chain
func (d *Document) DecodeStream(stream *core.Stream) ([]byte, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	return stream.Decode()
}
