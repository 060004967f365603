package fiber

// KindTag discriminates the Kind variants.
type KindTag uint8

const (
	kindInvalid   KindTag = iota
	KindHost              // Host tag such as "div" or "#text"
	KindComponent         // Component function
)

// String returns the string representation of the KindTag.
func (t KindTag) String() string {
	switch t {
	case KindHost:
		return "Host"
	case KindComponent:
		return "Component"
	default:
		return "Invalid"
	}
}

// Reserved host tags.
const (
	TextTag = "#text" // Text node; its only prop is NodeValue
	RootTag = "#root" // Pending root wrapping the render container
)

// NodeValue is the prop carrying the content of a text node.
const NodeValue = "nodeValue"

// Kind is the type of a node: either a host tag or a component.
// The zero Kind is invalid.
type Kind struct {
	Tag  KindTag
	Host string     // For KindHost
	Comp *Component // For KindComponent
}

// HostType returns the Kind of a host node with the given tag.
func HostType(tag string) Kind {
	return Kind{Tag: KindHost, Host: tag}
}

// ComponentType returns the Kind of a node rendered by c.
func ComponentType(c *Component) Kind {
	return Kind{Tag: KindComponent, Comp: c}
}

// Valid reports whether k names a host tag or a component.
func (k Kind) Valid() bool {
	switch k.Tag {
	case KindHost:
		return k.Host != ""
	case KindComponent:
		return k.Comp != nil && k.Comp.Render != nil
	default:
		return false
	}
}

// Equal reports whether two kinds denote the same node type.
// Components are compared by identity.
func (k Kind) Equal(o Kind) bool {
	if k.Tag != o.Tag {
		return false
	}
	switch k.Tag {
	case KindHost:
		return k.Host == o.Host
	case KindComponent:
		return k.Comp == o.Comp
	default:
		return false
	}
}

// String returns a short human-readable form, e.g. "<div>" or "Counter()".
func (k Kind) String() string {
	switch k.Tag {
	case KindHost:
		return "<" + k.Host + ">"
	case KindComponent:
		if k.Comp == nil {
			return "Component(nil)"
		}
		return k.Comp.Name + "()"
	default:
		return "Invalid"
	}
}

// Component is a named render function. Its pointer is its identity:
// two nodes have the same component kind only if they share the *Component.
type Component struct {
	Name   string
	Render func(props Props) *Element
}

// NewComponent creates a component from a render function.
func NewComponent(name string, render func(props Props) *Element) *Component {
	return &Component{Name: name, Render: render}
}
