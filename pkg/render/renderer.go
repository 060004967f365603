package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/arbor/pkg/fiber"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output with one block element per line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer serializes committed fiber trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders the tree rooted at n to a string.
func (r *Renderer) RenderToString(n *fiber.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams the tree rooted at n to w. A "#root" node
// renders as its children only.
func (r *Renderer) RenderToWriter(w io.Writer, n *fiber.Node) error {
	return r.renderNode(w, n, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, n *fiber.Node, depth int) error {
	if n == nil {
		return nil
	}

	switch n.Kind.Tag {
	case fiber.KindComponent:
		return r.renderChildren(w, n, depth)
	case fiber.KindHost:
		switch n.Kind.Host {
		case fiber.RootTag:
			return r.renderChildren(w, n, depth)
		case fiber.TextTag:
			_, err := io.WriteString(w, EscapeHTML(fiber.PropString(n.Props[fiber.NodeValue])))
			return err
		default:
			return r.renderElement(w, n, depth)
		}
	default:
		return fmt.Errorf("render: invalid kind %s", n.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, n *fiber.Node, depth int) error {
	for c := n.Child; c != nil; c = c.Sibling {
		if err := r.renderNode(w, c, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders a host element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, n *fiber.Node, depth int) error {
	tag := n.Kind.Host

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	if err := WriteStartTag(w, tag, n.Props, Events(n.Props)); err != nil {
		return err
	}
	if IsVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	block := n.Child != nil && !isInlineElement(tag)
	if r.config.Pretty && block {
		io.WriteString(w, "\n")
	}
	for c := n.Child; c != nil; c = c.Sibling {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && block {
		r.writeIndent(w, depth)
	}

	if err := WriteEndTag(w, tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

// Events returns the sorted event names bound in props.
func Events(props map[string]any) []string {
	var events []string
	for key, v := range props {
		if fiber.IsEventKey(key) && v != nil {
			events = append(events, fiber.EventName(key))
		}
	}
	sort.Strings(events)
	return events
}

// WriteStartTag writes the opening tag of an element. Attributes are
// written in sorted key order; the children prop and event props are
// skipped, and each name in events is marked with data-on-<name>.
func WriteStartTag(w io.Writer, tag string, attrs map[string]any, events []string) error {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if key == fiber.ChildrenKey || fiber.IsEventKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := attrs[key]
		if IsBooleanAttr(key) {
			if on, ok := value.(bool); ok {
				if on {
					b.WriteByte(' ')
					b.WriteString(key)
				}
				continue
			}
		}
		s := fiber.PropString(value)
		if s == "" {
			continue
		}
		fmt.Fprintf(&b, ` %s="%s"`, key, EscapeAttr(s))
	}
	for _, ev := range events {
		fmt.Fprintf(&b, ` data-on-%s="true"`, ev)
	}

	b.WriteByte('>')
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteEndTag writes the closing tag of a non-void element.
func WriteEndTag(w io.Writer, tag string) error {
	_, err := fmt.Fprintf(w, "</%s>", tag)
	return err
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
	)
	// Attribute values also escape whitespace that would be normalized
	// when the markup is parsed back.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;",
	)
)

// EscapeHTML escapes text content.
func EscapeHTML(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a double-quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
