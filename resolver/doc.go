// Package resolver provides PDF indirect reference resolution.
//
// PDF documents use indirect references (e.g., "5 0 R") to refer to objects
// stored elsewhere in the file. This package resolves these references,
// following chains of references and detecting circular dependencies.
//
// # Basic Usage
//
// Create a resolver over anything that implements
// core.ReferenceResolver, such as a parsed reader.Document:
//
//	r := resolver.NewResolver(doc)
//	obj, err := r.Resolve(ref)
//
// # Deep Resolution
//
// For complete expansion of nested references in dictionaries and arrays:
//
//	resolved, err := r.ResolveDeep(obj)
//
// References that point back to an object already being expanded are
// left as references. Nesting is bounded by a maximum depth:
//
//	r := resolver.NewResolver(doc, resolver.WithMaxDepth(50))
//
// Every call starts with a fresh visited set, so a resolver can be
// reused and shared.
package resolver
