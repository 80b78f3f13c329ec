// Package pages provides PDF page tree traversal and page access.
//
// # Page Tree
//
// PDF documents organize pages in a tree structure. The [PageTree] type
// flattens this hierarchy into document order:
//
//	tree := pages.NewPageTree(pagesDict, resolver)
//	count := tree.Count()
//	all, _ := tree.Pages()
//
// Leaves are /Type /Page nodes. /Type /Pages nodes, and any node with
// /Kids, are descended into. Each indirect node is visited once and
// nesting is bounded by [WithMaxDepth], so malformed trees with cycles
// still terminate.
//
// # Page Access
//
// The [Page] type represents a single PDF page with:
//
//   - MediaBox and CropBox - page dimensions as a model.BBox
//   - Rotate - page rotation (0, 90, 180, 270)
//   - Resources - fonts and other named resources
//   - Contents - content streams in drawing order
//
// MediaBox, CropBox, Resources and Rotate are inherited from the
// nearest ancestor that defines them.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup and is
// satisfied by resolver.ObjectResolver.
package pages
