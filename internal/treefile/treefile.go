// Package treefile decodes render-tree descriptions from YAML or JSON.
//
// A node is a mapping with exactly one of tag, text or component:
//
//	tag: ul
//	props:
//	  class: tasks
//	children:
//	  - tag: li
//	    children: [Buy milk]      # a bare scalar is a text node
//	  - component: Counter
//	    props: {start: 3}
//	  - tag: button
//	    props: {onClick: bump}    # event props name a registered action
//	    children: [Add]
//
// Components and actions are looked up by name in the Decoder.
package treefile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
	"github.com/vango-dev/arbor/pkg/fiber"
)

// Decoder turns description documents into elements.
type Decoder struct {
	components map[string]*fiber.Component
	actions    map[string]*fiber.EventHandler
}

// NewDecoder creates a decoder with no registered components or actions.
func NewDecoder() *Decoder {
	return &Decoder{
		components: make(map[string]*fiber.Component),
		actions:    make(map[string]*fiber.EventHandler),
	}
}

// Register makes c available under name.
func (d *Decoder) Register(name string, c *fiber.Component) {
	d.components[name] = c
}

// Action binds name to h for event props. The same handler is used on
// every decode, so re-rendering a file keeps listeners attached.
func (d *Decoder) Action(name string, h *fiber.EventHandler) {
	d.actions[name] = h
}

// Components returns the registered component names, sorted.
func (d *Decoder) Components() []string {
	names := make([]string, 0, len(d.components))
	for name := range d.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeFile reads and decodes the description in path. Errors carry the
// file position of the offending node.
func (d *Decoder) DecodeFile(path string) (*fiber.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, arborerrors.New("A031").WithDetail(path).Wrap(err)
	}
	el, err := d.Decode(data)
	if err != nil {
		ae := arborerrors.FromError(err, "A032")
		if ae.Location != nil && ae.Location.Line > 0 {
			ae.WithLocation(path, ae.Location.Line, ae.Location.Column)
		} else {
			ae.Location = &arborerrors.Location{File: path}
		}
		return nil, ae
	}
	return el, nil
}

// Decode decodes one description document. An empty document decodes to
// nil, which renders an empty tree.
func (d *Decoder) Decode(data []byte) (*fiber.Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, arborerrors.New("A032").WithDetail(err.Error()).Wrap(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return d.element(doc.Content[0])
}

func (d *Decoder) element(n *yaml.Node) (*fiber.Element, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return fiber.Text(n.Value), nil
	case yaml.MappingNode:
	default:
		return nil, nodeError(n, "A032", "expected a mapping or a scalar, got %s", kindName(n))
	}

	var tag, text, component *yaml.Node
	var props, children *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "tag":
			tag = value
		case "text":
			text = value
		case "component":
			component = value
		case "props":
			props = value
		case "children":
			children = value
		default:
			return nil, nodeError(key, "A032", "unknown key %q", key.Value)
		}
	}

	set := 0
	for _, v := range []*yaml.Node{tag, text, component} {
		if v != nil {
			set++
		}
	}
	if set != 1 {
		return nil, nodeError(n, "A032", "node has %d of tag, text and component", set)
	}

	if text != nil {
		if props != nil || children != nil {
			return nil, nodeError(n, "A032", "text nodes take no props or children")
		}
		if text.Kind != yaml.ScalarNode {
			return nil, nodeError(text, "A032", "text must be a scalar")
		}
		return fiber.Text(text.Value), nil
	}

	p, err := d.props(props)
	if err != nil {
		return nil, err
	}

	if component != nil {
		c, ok := d.components[component.Value]
		if !ok {
			return nil, nodeError(component, "A033", "%q", component.Value)
		}
		if children != nil {
			return nil, nodeError(children, "A032", "components take no children")
		}
		return fiber.Render(c, p), nil
	}

	if tag.Kind != yaml.ScalarNode || tag.Value == "" {
		return nil, nodeError(tag, "A032", "tag must be a non-empty string")
	}
	if children != nil {
		if children.Kind != yaml.SequenceNode {
			return nil, nodeError(children, "A032", "children must be a sequence")
		}
		kids := make([]*fiber.Element, 0, len(children.Content))
		for _, c := range children.Content {
			k, err := d.element(c)
			if err != nil {
				return nil, err
			}
			kids = append(kids, k)
		}
		if len(kids) > 0 {
			p[fiber.ChildrenKey] = kids
		}
	}
	return &fiber.Element{Kind: fiber.HostType(tag.Value), Props: p}, nil
}

func (d *Decoder) props(n *yaml.Node) (fiber.Props, error) {
	p := fiber.Props{}
	if n == nil {
		return p, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "A032", "props must be a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Value == fiber.ChildrenKey {
			return nil, nodeError(key, "A032", "children belong next to props, not inside them")
		}
		if fiber.IsEventKey(key.Value) {
			h, ok := d.actions[value.Value]
			if !ok || value.Kind != yaml.ScalarNode {
				return nil, nodeError(value, "A032", "%s names unknown action %q", key.Value, value.Value)
			}
			p[key.Value] = h
			continue
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, nodeError(value, "A032", "prop %s: %v", key.Value, err)
		}
		p[key.Value] = v
	}
	return p, nil
}

func nodeError(n *yaml.Node, code, format string, args ...any) error {
	ae := arborerrors.New(code).WithDetail(fmt.Sprintf(format, args...))
	ae.Location = &arborerrors.Location{Line: n.Line, Column: n.Column}
	return ae
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return fmt.Sprintf("node kind %d", n.Kind)
	}
}
