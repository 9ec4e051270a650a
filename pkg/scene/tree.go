// Package scene is the proxy tree between a declarative scene description
// and a native renderer's object graph.
//
// Each [Node] mirrors one element of the description. Its logical
// children are what the description says; its tracked children are what
// was actually inserted into the native graph on their behalf. The two
// lists always have the same length and line up index by index. A tracked
// entry may be the child itself, a substitute (raw text placed directly in
// a container is rendered through a synthesized text object), or nil while
// a render layer is waiting for a native ancestor.
//
// Misuse of the tree (removing a node that is not a child, giving a leaf
// children, inserting raw text where it cannot render) panics with an
// *errors.StructuralError. These are caller bugs and are never recovered.
package scene

import (
	"sync/atomic"

	"github.com/go-drift/sceneloop/pkg/errors"
	"github.com/go-drift/sceneloop/pkg/native"
)

// IDAllocator hands out node ids. Ids increase monotonically and are never
// reused, so nodes from trees sharing an allocator are comparable.
type IDAllocator struct {
	last atomic.Uint64
}

// Next returns a fresh id.
func (a *IDAllocator) Next() uint64 {
	return a.last.Add(1)
}

// Tree creates nodes backed by one renderer.
type Tree struct {
	ids      *IDAllocator
	renderer native.Renderer
}

// NewTree creates a tree. A nil ids gets a private allocator.
func NewTree(renderer native.Renderer, ids *IDAllocator) *Tree {
	if ids == nil {
		ids = &IDAllocator{}
	}
	return &Tree{ids: ids, renderer: renderer}
}

// Renderer returns the native renderer.
func (t *Tree) Renderer() native.Renderer { return t.renderer }

func (t *Tree) node(kind Kind, obj native.Object) *Node {
	return &Node{tree: t, id: t.ids.Next(), kind: kind, native: obj}
}

// NewApplication creates an application root with a fresh stage.
func (t *Tree) NewApplication() *Node {
	return t.node(KindApplication, t.renderer.New(native.KindStage))
}

// NewHost creates a root that inserts its children into obj.
func (t *Tree) NewHost(obj native.Object) *Node {
	if obj == nil {
		errors.Structural("scene.NewHost", "", "host object is nil")
	}
	return t.node(KindHost, obj)
}

// NewContainer creates a container node.
func (t *Tree) NewContainer() *Node {
	return t.node(KindContainer, t.renderer.New(native.KindContainer))
}

// NewText creates a text node. Its content is the concatenation of its raw
// text children.
func (t *Tree) NewText() *Node {
	return t.node(KindText, t.renderer.New(native.KindText))
}

// NewLeaf creates a drawable leaf of the given native kind.
func (t *Tree) NewLeaf(kind native.Kind) *Node {
	if !kind.Drawable() {
		errors.Structural("scene.NewLeaf", kind.String(), "leaf kind must be a drawable")
	}
	return t.node(KindLeaf, t.renderer.New(kind))
}

// NewLayer creates a render-layer node with a fresh layer handle.
func (t *Tree) NewLayer() *Node {
	n := t.node(KindLayer, nil)
	n.handle = t.renderer.NewLayer()
	return n
}

// NewRawText creates a text fragment. value is usually a string or a
// number.
func (t *Tree) NewRawText(value any) *Node {
	n := t.node(KindRawText, nil)
	n.value = value
	return n
}
