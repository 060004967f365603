package fiber

import (
	"strings"
	"testing"
)

func effects(n *Node) []EffectTag {
	var out []EffectTag
	for c := n.Child; c != nil; c = c.Sibling {
		out = append(out, c.Effect)
	}
	return out
}

func equalEffects(a, b []EffectTag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFirstRenderPlacesEverything(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	w, err := runPass(host, container, nil, list("a", "b", "c"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	stats := w.Stats()
	if stats.Placements != 7 || stats.Updates != 0 || stats.Deletions != 0 {
		t.Errorf("stats = %+v, want 7 placements", stats)
	}
	if stats.Units != 8 {
		t.Errorf("Units = %d, want 8", stats.Units)
	}
	want := "<ul><li>a</li><li>b</li><li>c</li></ul>"
	if got := container.innerMarkup(); got != want {
		t.Errorf("markup = %s, want %s", got, want)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	host := newFakeHost()
	container := host.container()
	desc := func() *Element {
		return h("div", Props{"class": "box", "id": "main"},
			list("a", "b"),
			h("p", Props{"title": "t"}, Text("hello")),
		)
	}

	first, err := runPass(host, container, nil, desc())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	host.reset()

	second, err := expand(host, container, first.Root, desc())
	if err != nil {
		t.Fatalf("second expand: %v", err)
	}

	Walk(second.Root.Child, func(n *Node) bool {
		if n.Effect != Update {
			t.Errorf("%s has effect %s, want Update", n.Kind, n.Effect)
		}
		if n.Alternate == nil {
			t.Errorf("%s has no alternate", n.Kind)
		} else if n.Handle != n.Alternate.Handle {
			t.Errorf("%s changed handle", n.Kind)
		}
		if n.Alternate != nil {
			if diff := DiffProps(n.Alternate.Props, n.Props); len(diff) != 0 {
				t.Errorf("%s has non-empty diff %v", n.Kind, diff)
			}
		}
		return true
	})
	if len(second.Deletions) != 0 {
		t.Errorf("got %d deletions, want 0", len(second.Deletions))
	}

	if err := second.Commit(); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if len(host.ops) != 0 {
		t.Errorf("second pass touched the host: %v", host.ops)
	}
}

func TestTypeChangeWithoutShrinkSupersedesInPlace(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, h("div", nil, h("em", nil), h("span", nil)))
	if err != nil {
		t.Fatal(err)
	}
	oldDiv := first.Root.Child
	oldSpan := oldDiv.Child.Sibling

	second, err := expand(host, container, first.Root, h("div", nil, h("strong", nil), h("span", nil)))
	if err != nil {
		t.Fatal(err)
	}

	div := second.Root.Child
	if got := effects(div); !equalEffects(got, []EffectTag{Placement, Update}) {
		t.Fatalf("child effects = %v, want [Placement Update]", got)
	}
	strong := div.Child
	if strong.Alternate != nil {
		t.Error("placement must not carry an alternate")
	}
	if strong.Handle == nil {
		t.Error("placement should be materialized during expansion")
	}
	if span := strong.Sibling; span.Handle != oldSpan.Handle {
		t.Error("span should reuse its handle")
	}
	if len(second.Deletions) != 0 {
		t.Errorf("got %d deletions, want 0", len(second.Deletions))
	}
}

func TestTypeChangeWithShrinkDeletesTail(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, h("div", nil, h("em", nil), h("span", nil)))
	if err != nil {
		t.Fatal(err)
	}
	oldSpan := first.Root.Child.Child.Sibling

	second, err := expand(host, container, first.Root, h("div", nil, h("strong", nil)))
	if err != nil {
		t.Fatal(err)
	}

	div := second.Root.Child
	if got := effects(div); !equalEffects(got, []EffectTag{Placement}) {
		t.Fatalf("child effects = %v, want [Placement]", got)
	}
	if len(second.Deletions) != 1 || second.Deletions[0] != oldSpan {
		t.Fatalf("deletions = %v, want the old span", second.Deletions)
	}
	if oldSpan.Effect != Deletion {
		t.Errorf("old span effect = %s, want Deletion", oldSpan.Effect)
	}

	host.reset()
	if err := second.Commit(); err != nil {
		t.Fatal(err)
	}
	if host.ops[0] != "remove div>span" {
		t.Errorf("first commit op = %q, want the deletion", host.ops[0])
	}
}

func TestListShrink(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, list("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	oldItems := first.Root.Child.Children()

	second, err := runPass(host, container, first.Root, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}

	items := second.Root.Child.Children()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for i, item := range items {
		if item.Effect != Update {
			t.Errorf("item %d effect = %s, want Update", i, item.Effect)
		}
		if item.Handle != oldItems[i].Handle {
			t.Errorf("item %d handle changed", i)
		}
	}
	if len(second.Deletions) != 1 || second.Deletions[0] != oldItems[2] {
		t.Fatalf("deletions = %v, want old item c", second.Deletions)
	}
	if oldItems[2].Effect != Deletion {
		t.Errorf("old c effect = %s", oldItems[2].Effect)
	}
	if got, want := container.innerMarkup(), "<ul><li>a</li><li>b</li></ul>"; got != want {
		t.Errorf("markup = %s, want %s", got, want)
	}
}

func TestListGrow(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, list("a"))
	if err != nil {
		t.Fatal(err)
	}
	host.reset()

	second, err := runPass(host, container, first.Root, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}

	if got := effects(second.Root.Child); !equalEffects(got, []EffectTag{Update, Placement}) {
		t.Errorf("effects = %v, want [Update Placement]", got)
	}
	if len(second.Deletions) != 0 {
		t.Errorf("got %d deletions", len(second.Deletions))
	}
	wantOps := []string{"create li", "create #text", "append ul>li", "append li>#text"}
	if strings.Join(host.ops, "|") != strings.Join(wantOps, "|") {
		t.Errorf("ops = %v, want %v", host.ops, wantOps)
	}
	if got, want := container.innerMarkup(), "<ul><li>a</li><li>b</li></ul>"; got != want {
		t.Errorf("markup = %s, want %s", got, want)
	}
}

func TestTextUpdate(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, list("a"))
	if err != nil {
		t.Fatal(err)
	}
	host.reset()

	if _, err := runPass(host, container, first.Root, list("b")); err != nil {
		t.Fatal(err)
	}
	if len(host.ops) != 1 || host.ops[0] != "set #text.nodeValue=b" {
		t.Errorf("ops = %v", host.ops)
	}
}

func TestComponentReRender(t *testing.T) {
	greeting := NewComponent("Greeting", func(p Props) *Element {
		return h("p", nil, Text("hi "+p["name"].(string)))
	})

	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, Render(greeting, Props{"name": "ann"}))
	if err != nil {
		t.Fatal(err)
	}
	comp := first.Root.Child
	if comp.Handle != nil {
		t.Error("component node must not own a handle")
	}
	if got := container.innerMarkup(); got != "<p>hi ann</p>" {
		t.Errorf("markup = %s", got)
	}
	host.reset()

	second, err := runPass(host, container, first.Root, Render(greeting, Props{"name": "bob"}))
	if err != nil {
		t.Fatal(err)
	}
	if second.Root.Child.Effect != Update {
		t.Errorf("component effect = %s, want Update", second.Root.Child.Effect)
	}
	if len(host.ops) != 1 || host.ops[0] != "set #text.nodeValue=hi bob" {
		t.Errorf("ops = %v", host.ops)
	}
}

func TestComponentReturningNil(t *testing.T) {
	empty := NewComponent("Empty", func(Props) *Element { return nil })

	host := newFakeHost()
	container := host.container()
	w, err := runPass(host, container, nil, h("div", nil, Render(empty, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if c := w.Root.Child.Child; c == nil || c.Child != nil {
		t.Error("component should have no children")
	}
	if got := container.innerMarkup(); got != "<div></div>" {
		t.Errorf("markup = %s", got)
	}
}

func TestNilDescriptionUnmounts(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	first, err := runPass(host, container, nil, list("a"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := runPass(host, container, first.Root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Root.Child != nil {
		t.Error("root should have no children")
	}
	if len(container.children) != 0 {
		t.Errorf("container still has %d children", len(container.children))
	}
}

func TestNewRootAlternate(t *testing.T) {
	prev := &Node{Kind: HostType(RootTag)}
	root := NewRoot(Text("x"), "c", prev)
	if root.Alternate != prev || root.Handle != "c" {
		t.Errorf("NewRoot = %+v", root)
	}
	children, ok := root.Props.Children()
	if !ok || len(children) != 1 {
		t.Errorf("children = %v, %v", children, ok)
	}
}
