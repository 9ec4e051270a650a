// Package memory is a retained, in-process renderer. It keeps the native
// object graph as plain Go values so tests and tools can inspect what a
// scene produced.
package memory

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/sceneloop/pkg/native"
)

// Renderer creates memory objects. It is not safe for concurrent use.
type Renderer struct {
	face   font.Face
	nextID int
	layers []*Layer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFace sets the face used to measure text. The default is basicfont's
// 7x13 bitmap face.
func WithFace(face font.Face) Option {
	return func(r *Renderer) {
		if face != nil {
			r.face = face
		}
	}
}

// NewRenderer creates an empty renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{face: basicfont.Face7x13}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// New returns a fresh, unparented object.
func (r *Renderer) New(kind native.Kind) native.Object {
	r.nextID++
	return &Object{
		renderer: r,
		id:       r.nextID,
		kind:     kind,
		props:    map[string]any{},
	}
}

// NewLayer returns a fresh, empty layer.
func (r *Renderer) NewLayer() native.Layer {
	l := &Layer{id: len(r.layers) + 1}
	r.layers = append(r.layers, l)
	return l
}

// Layers returns every layer created so far.
func (r *Renderer) Layers() []*Layer {
	return slices.Clone(r.layers)
}

// Measure returns the pixel size of text in the renderer's face. Lines are
// separated by '\n'.
func (r *Renderer) Measure(text string) (width, height int) {
	if text == "" {
		return 0, 0
	}
	lineHeight := r.face.Metrics().Height.Ceil()
	for _, line := range strings.Split(text, "\n") {
		width = max(width, font.MeasureString(r.face, line).Ceil())
		height += lineHeight
	}
	return width, height
}

// Object is a memory-backed native object.
type Object struct {
	renderer *Renderer
	id       int
	kind     native.Kind
	parent   *Object
	children []*Object
	props    map[string]any
	layer    *Layer
}

// ID returns the object's renderer-local id.
func (o *Object) ID() int { return o.id }

// Kind returns the object's kind.
func (o *Object) Kind() native.Kind { return o.kind }

// Parent returns the containing object, or nil.
func (o *Object) Parent() *Object { return o.parent }

// Children returns the child objects in draw order.
func (o *Object) Children() []*Object { return slices.Clone(o.children) }

// Layer returns the layer the object is attached to, or nil.
func (o *Object) Layer() *Layer { return o.layer }

// Prop returns a property value.
func (o *Object) Prop(name string) (any, bool) {
	v, ok := o.props[name]
	return v, ok
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.kind, o.id)
}

// AddChild appends child. It panics if child belongs to another renderer,
// already has a parent, or o is a drawable leaf.
func (o *Object) AddChild(child native.Object) {
	c := o.own(child, "AddChild")
	if o.kind.Drawable() || o.kind == native.KindText {
		panic(fmt.Sprintf("memory: %s cannot hold children", o))
	}
	if c.parent != nil {
		panic(fmt.Sprintf("memory: %s already has parent %s", c, c.parent))
	}
	c.parent = o
	o.children = append(o.children, c)
}

// RemoveChild removes child. It panics if child is not a child of o.
func (o *Object) RemoveChild(child native.Object) {
	c := o.own(child, "RemoveChild")
	i := slices.Index(o.children, c)
	if i < 0 {
		panic(fmt.Sprintf("memory: %s is not a child of %s", c, o))
	}
	o.children = slices.Delete(o.children, i, i+1)
	c.parent = nil
}

// SetProperty stores a property. Setting "text" on a text object also
// updates its "width" and "height".
func (o *Object) SetProperty(name string, value any) {
	o.props[name] = value
	if o.kind == native.KindText && name == "text" {
		w, h := o.renderer.Measure(fmt.Sprint(value))
		o.props["width"] = w
		o.props["height"] = h
	}
}

func (o *Object) own(child native.Object, op string) *Object {
	c, ok := child.(*Object)
	if !ok || c == nil || c.renderer != o.renderer {
		panic(fmt.Sprintf("memory: %s: %T is not an object of this renderer", op, child))
	}
	return c
}

// Layer is a memory-backed draw-order group.
type Layer struct {
	id      int
	objects []*Object
}

// ID returns the layer's renderer-local id.
func (l *Layer) ID() int { return l.id }

// Objects returns the attached objects in attach order.
func (l *Layer) Objects() []*Object { return slices.Clone(l.objects) }

// Attach adds obj to the layer, moving it out of any other layer.
func (l *Layer) Attach(obj native.Object) {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		panic(fmt.Sprintf("memory: Attach: %T is not a memory object", obj))
	}
	if o.layer == l {
		return
	}
	if o.layer != nil {
		o.layer.Detach(o)
	}
	o.layer = l
	l.objects = append(l.objects, o)
}

// Detach removes obj from the layer. It panics if obj is not attached.
func (l *Layer) Detach(obj native.Object) {
	o, ok := obj.(*Object)
	if !ok || o == nil || o.layer != l {
		panic(fmt.Sprintf("memory: Detach: %v is not attached to layer %d", obj, l.id))
	}
	l.objects = slices.DeleteFunc(l.objects, func(x *Object) bool { return x == o })
	o.layer = nil
}
