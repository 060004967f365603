package el

import (
	"strings"
)

// Attr is a single ordinary attribute.
type Attr struct {
	Key   string
	Value any
}

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary attribute.
func Prop(key string, value any) Attr { return attr(key, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute from space-joined class names.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf returns the class attribute if cond holds, otherwise an empty Attr.
func ClassIf(cond bool, classes ...string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(classes...)
}

func Data(key, value string) Attr     { return attr("data-"+key, value) }
func Title(title string) Attr         { return attr("title", title) }
func Href(url string) Attr            { return attr("href", url) }
func Name(name string) Attr           { return attr("name", name) }
func Value(value string) Attr         { return attr("value", value) }
func Type(t string) Attr              { return attr("type", t) }
func Placeholder(text string) Attr    { return attr("placeholder", text) }
func Src(url string) Attr             { return attr("src", url) }
func Alt(text string) Attr            { return attr("alt", text) }
func TabIndex(index int) Attr         { return attr("tabindex", index) }
func Role(role string) Attr           { return attr("role", role) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }
func Disabled(disabled bool) Attr     { return attr("disabled", disabled) }
func Checked(checked bool) Attr       { return attr("checked", checked) }
func Hidden() Attr                    { return attr("hidden", true) }
func Required() Attr                  { return attr("required", true) }
func Autofocus() Attr                 { return attr("autofocus", true) }
func Style(style string) Attr         { return attr("style", style) }
func For(id string) Attr              { return attr("for", id) }
func Colspan(n int) Attr              { return attr("colspan", n) }
