package scene

import "fmt"

// Kind is the closed set of node variants.
type Kind uint8

const (
	// KindApplication is the root of an application; it owns the stage.
	KindApplication Kind = iota
	// KindHost roots a tree inside a native object created elsewhere.
	KindHost
	// KindContainer groups children under a native container.
	KindContainer
	// KindText renders the concatenation of its raw text children.
	KindText
	// KindLeaf is a drawable that never has children.
	KindLeaf
	// KindLayer associates its subtree with a render layer. It has no
	// native object and forwards children to its nearest native ancestor.
	KindLayer
	// KindRawText is a string or number fragment.
	KindRawText
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindHost:
		return "host"
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	case KindLeaf:
		return "leaf"
	case KindLayer:
		return "layer"
	case KindRawText:
		return "raw-text"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func unreachable(k Kind) {
	panic(fmt.Sprintf("scene: unreachable node kind %v", k))
}
