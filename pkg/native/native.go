// Package native defines the renderer surface the scene graph writes into.
//
// The scene graph only ever constructs objects, links and unlinks them,
// and sets named properties. Drawing, hit testing and the meaning of each
// property belong to the renderer.
package native

import "fmt"

// Kind identifies the type of a native object.
type Kind uint8

const (
	// KindStage is the root surface of an application.
	KindStage Kind = iota
	// KindContainer groups child objects.
	KindContainer
	// KindText draws a string set through the "text" property.
	KindText
	// KindSprite draws an image.
	KindSprite
	// KindGraphics draws vector shapes.
	KindGraphics
)

func (k Kind) String() string {
	switch k {
	case KindStage:
		return "stage"
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	case KindSprite:
		return "sprite"
	case KindGraphics:
		return "graphics"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Drawable reports whether k is a leaf kind that cannot hold children.
func (k Kind) Drawable() bool {
	return k == KindSprite || k == KindGraphics
}

// Object is a node of the renderer's mutable object graph.
type Object interface {
	Kind() Kind
	AddChild(child Object)
	RemoveChild(child Object)
	SetProperty(name string, value any)
}

// Layer groups objects for draw ordering independently of where they sit
// in the object graph.
type Layer interface {
	Attach(obj Object)
	Detach(obj Object)
}

// Renderer constructs native objects.
type Renderer interface {
	New(kind Kind) Object
	NewLayer() Layer
}
