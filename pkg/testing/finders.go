package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/sceneloop/pkg/scene"
)

// Finder locates nodes in the scene tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *scene.Node) []*scene.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*scene.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *scene.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *scene.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *scene.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*scene.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*scene.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *scene.Node) []*scene.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByKind matches nodes of the given variant.
func ByKind(kind scene.Kind) Finder {
	return &predicateFinder{
		fn:   func(n *scene.Node) bool { return n.Kind() == kind },
		desc: fmt.Sprintf("ByKind(%s)", kind),
	}
}

// ByID matches the node with the given id.
func ByID(id uint64) Finder {
	return &predicateFinder{
		fn:   func(n *scene.Node) bool { return n.ID() == id },
		desc: fmt.Sprintf("ByID(%d)", id),
	}
}

// ByText matches text nodes whose rendered content equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn: func(n *scene.Node) bool {
			return n.Kind() == scene.KindText && n.Content() == text
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches text nodes whose content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(n *scene.Node) bool {
			return n.Kind() == scene.KindText && strings.Contains(n.Content(), substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByLayer matches nodes associated with the given layer node.
func ByLayer(layer *scene.Node) Finder {
	return &predicateFinder{
		fn:   func(n *scene.Node) bool { return n.Layer() == layer },
		desc: fmt.Sprintf("ByLayer(%s)", layer),
	}
}

// ByPredicate matches nodes satisfying fn.
func ByPredicate(fn func(*scene.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' below nodes matching
// 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *scene.Node) []*scene.Node {
	var results []*scene.Node
	seen := make(map[*scene.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' above nodes matching
// 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *scene.Node) []*scene.Node {
	candidates := make(map[*scene.Node]bool)
	for _, n := range f.matching.Evaluate(root) {
		candidates[n] = true
	}
	var results []*scene.Node
	seen := make(map[*scene.Node]bool)
	for _, desc := range f.of.Evaluate(root) {
		for p := desc.Parent(); p != nil; p = p.Parent() {
			if candidates[p] && !seen[p] {
				seen[p] = true
				results = append(results, p)
			}
			if p == root {
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching' that
// are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// collectMatches performs a depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root *scene.Node, predicate func(*scene.Node) bool) []*scene.Node {
	var results []*scene.Node
	walkTree(root, func(n *scene.Node) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

func walkTree(root *scene.Node, visit func(*scene.Node)) {
	visit(root)
	for _, c := range root.Children() {
		walkTree(c, visit)
	}
}
