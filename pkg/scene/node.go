package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/sceneloop/pkg/errors"
	"github.com/go-drift/sceneloop/pkg/native"
)

// Node is one element of the proxy tree. Nodes are not safe for concurrent
// use; the whole tree is owned by the frame loop goroutine.
type Node struct {
	tree   *Tree
	id     uint64
	kind   Kind
	native native.Object

	parent   *Node
	children []*Node
	tracked  []*Node
	layer    *Node

	// KindLayer: handle is the render layer, host the native object that
	// receives forwarded children. host is nil until the layer has a
	// native ancestor.
	handle native.Layer
	host   native.Object

	// KindText
	content string

	// KindRawText: substitute renders the fragment when the parent is not
	// a text node.
	value      any
	substitute *Node
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d", n.kind, n.id)
}

// ID returns the node's unique id.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Native returns the native counterpart, or nil for layers and raw text.
func (n *Node) Native() native.Object { return n.native }

// Parent returns the logical parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the logical children in order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Tracked returns, for each logical child, the node inserted into the
// native graph on its behalf, or nil if the insertion is still queued.
func (n *Node) Tracked() []*Node { return slices.Clone(n.tracked) }

// Layer returns the render-layer node this node draws in, or nil.
func (n *Node) Layer() *Node { return n.layer }

// Handle returns the native layer of a layer node.
func (n *Node) Handle() native.Layer { return n.handle }

// Mounted reports whether a layer node has a native ancestor. Other
// variants always report true.
func (n *Node) Mounted() bool {
	return n.kind != KindLayer || n.host != nil
}

// Value returns the fragment of a raw text node.
func (n *Node) Value() any { return n.value }

// Content returns the rendered string of a text node, or the formatted
// fragment of a raw text node.
func (n *Node) Content() string {
	switch n.kind {
	case KindText:
		return n.content
	case KindRawText:
		return format(n.value)
	default:
		return ""
	}
}

// AddChild appends child to n's logical children and inserts it, or its
// substitute, into the native graph.
func (n *Node) AddChild(child *Node) {
	n.checkInsert(child)
	child.parent = n
	n.children = append(n.children, child)
	n.tracked = append(n.tracked, n.addChildProxy(child))
	if n.kind == KindText {
		n.refresh()
	}
}

// RemoveChild detaches child from n and from the native graph.
func (n *Node) RemoveChild(child *Node) {
	const op = "scene.RemoveChild"
	if child == nil {
		errors.Structural(op, n.String(), "child is nil")
	}
	i := slices.IndexFunc(n.children, func(c *Node) bool { return c.id == child.id })
	if i < 0 {
		errors.Structural(op, n.String(), child.String()+" is not a child")
	}
	n.removeChildProxy(child, n.tracked[i])
	n.children = slices.Delete(n.children, i, i+1)
	n.tracked = slices.Delete(n.tracked, i, i+1)
	child.parent = nil
	if n.kind == KindText {
		n.refresh()
	}
}

// SetProp writes a property onto the native counterpart. Variants without
// one ignore it. prev is the value the property had before.
func (n *Node) SetProp(name string, value, prev any) {
	switch n.kind {
	case KindApplication, KindHost, KindContainer, KindText, KindLeaf:
		n.native.SetProperty(name, value)
	case KindLayer, KindRawText:
	default:
		unreachable(n.kind)
	}
}

// SetValue replaces the fragment of a raw text node and re-renders the
// text that shows it.
func (n *Node) SetValue(value any) {
	if n.kind != KindRawText {
		errors.Structural("scene.SetValue", n.String(), "only raw text has a value")
	}
	n.value = value
	switch {
	case n.parent != nil && n.parent.kind == KindText:
		n.parent.refresh()
	case n.substitute != nil:
		n.substitute.setText(format(value))
	}
}

func (n *Node) checkInsert(child *Node) {
	const op = "scene.AddChild"
	if child == nil {
		errors.Structural(op, n.String(), "child is nil")
	}
	switch n.kind {
	case KindLeaf:
		errors.Structural(op, n.String(), "leaf nodes cannot have children")
	case KindRawText:
		errors.Structural(op, n.String(), "raw text cannot have children")
	case KindText:
		if child.kind != KindRawText {
			errors.Structural(op, n.String(), "text nodes only accept raw text, got "+child.String())
		}
	case KindApplication, KindHost, KindContainer, KindLayer:
		if child.kind == KindApplication || child.kind == KindHost {
			errors.Structural(op, n.String(), child.String()+" is a root and cannot be a child")
		}
	default:
		unreachable(n.kind)
	}
	if child.tree != n.tree {
		errors.Structural(op, n.String(), child.String()+" belongs to another tree")
	}
	if child.parent != nil {
		errors.Structural(op, n.String(), child.String()+" is already a child of "+child.parent.String())
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			errors.Structural(op, n.String(), "adding "+child.String()+" would create a cycle")
		}
	}
}

// addChildProxy performs the native side of an insertion and returns the
// tracked entry for child.
func (n *Node) addChildProxy(child *Node) *Node {
	switch n.kind {
	case KindText:
		return child
	case KindApplication, KindHost, KindContainer, KindLayer:
		proxy := child
		if child.kind == KindRawText {
			proxy = n.tree.substituteText(child)
		}
		n.adopt(child)
		host := n.nativeHost()
		if host == nil {
			return nil
		}
		n.place(proxy, host)
		return proxy
	default:
		unreachable(n.kind)
		return nil
	}
}

func (n *Node) removeChildProxy(child, proxy *Node) {
	switch n.kind {
	case KindText:
	case KindApplication, KindHost, KindContainer, KindLayer:
		if proxy != nil {
			n.unplace(proxy, n.nativeHost())
		}
		setLayer(child, nil)
		child.substitute = nil
	default:
		unreachable(n.kind)
	}
}

// nativeHost returns the native object n's children are inserted into.
func (n *Node) nativeHost() native.Object {
	switch n.kind {
	case KindApplication, KindHost, KindContainer:
		return n.native
	case KindLayer:
		return n.host
	case KindText, KindLeaf, KindRawText:
		return nil
	default:
		unreachable(n.kind)
		return nil
	}
}

func (n *Node) place(proxy *Node, host native.Object) {
	if proxy.kind == KindLayer {
		proxy.mount(host)
		return
	}
	host.AddChild(proxy.native)
	if n.kind == KindLayer {
		n.handle.Attach(proxy.native)
	}
}

func (n *Node) unplace(proxy *Node, host native.Object) {
	if proxy.kind == KindLayer {
		proxy.unmount()
		return
	}
	if n.kind == KindLayer {
		n.handle.Detach(proxy.native)
	}
	host.RemoveChild(proxy.native)
}

// mount flushes a layer's queued children, in order, into host.
func (n *Node) mount(host native.Object) {
	n.host = host
	for i, c := range n.children {
		proxy := c
		if c.kind == KindRawText {
			proxy = c.substitute
		}
		n.place(proxy, host)
		n.tracked[i] = proxy
	}
}

// unmount pulls a layer's children out of the native graph and queues
// them again.
func (n *Node) unmount() {
	for i, proxy := range n.tracked {
		if proxy != nil {
			n.unplace(proxy, n.host)
			n.tracked[i] = nil
		}
	}
	n.host = nil
}

// adopt gives child, and its subtree, the layer association of n.
func (n *Node) adopt(child *Node) {
	layer := n.layer
	if n.kind == KindLayer {
		layer = n
	}
	setLayer(child, layer)
}

// setLayer stops at nested layers, whose subtrees keep their own layer.
func setLayer(n *Node, layer *Node) {
	n.layer = layer
	if n.kind == KindLayer {
		return
	}
	for _, c := range n.children {
		setLayer(c, layer)
	}
}

func (t *Tree) substituteText(raw *Node) *Node {
	s := t.node(KindText, t.renderer.New(native.KindText))
	s.setText(format(raw.value))
	raw.substitute = s
	return s
}

// refresh re-renders a text node from all of its fragments.
func (n *Node) refresh() {
	var b strings.Builder
	for _, frag := range n.tracked {
		b.WriteString(format(frag.value))
	}
	n.setText(b.String())
}

func (n *Node) setText(s string) {
	n.content = s
	n.native.SetProperty("text", s)
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
