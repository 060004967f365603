package fiber

import (
	"errors"
	"strings"
	"testing"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

func TestListenerReplacementOrdering(t *testing.T) {
	var calls []string
	first := Handler(func(Event) { calls = append(calls, "first") })
	second := Handler(func(Event) { calls = append(calls, "second") })

	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, h("button", Props{"onClick": first}, Text("go")))
	if err != nil {
		t.Fatal(err)
	}
	button := w1.Root.Child.Handle.(*fakeNode)
	host.reset()

	if _, err := runPass(host, container, w1.Root, h("button", Props{"onClick": second}, Text("go"))); err != nil {
		t.Fatal(err)
	}

	want := []string{"unlisten button.click", "listen button.click"}
	if strings.Join(host.ops, "|") != strings.Join(want, "|") {
		t.Fatalf("ops = %v, want %v", host.ops, want)
	}

	if n := button.fire("click"); n != 1 {
		t.Fatalf("fire ran %d listeners, want 1", n)
	}
	if len(calls) != 1 || calls[0] != "second" {
		t.Errorf("calls = %v, want [second]", calls)
	}
}

func TestSameListenerIsKept(t *testing.T) {
	l := Handler(func(Event) {})
	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, h("button", Props{"onClick": l}))
	if err != nil {
		t.Fatal(err)
	}
	host.reset()
	if _, err := runPass(host, container, w1.Root, h("button", Props{"onClick": l})); err != nil {
		t.Fatal(err)
	}
	if len(host.ops) != 0 {
		t.Errorf("ops = %v, want none", host.ops)
	}
}

func TestListenerRemoved(t *testing.T) {
	l := Handler(func(Event) {})
	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, h("input", Props{"onInput": l, "value": "x"}))
	if err != nil {
		t.Fatal(err)
	}
	input := w1.Root.Child.Handle.(*fakeNode)
	host.reset()

	if _, err := runPass(host, container, w1.Root, h("input", Props{"value": "x"})); err != nil {
		t.Fatal(err)
	}
	if len(host.ops) != 1 || host.ops[0] != "unlisten input.input" {
		t.Errorf("ops = %v", host.ops)
	}
	if input.fire("input") != 0 {
		t.Error("listener still attached")
	}
}

func TestDeletionRecursesThroughComponents(t *testing.T) {
	inner := NewComponent("Inner", func(Props) *Element {
		return h("p", nil, Text("deep"))
	})
	outer := NewComponent("Outer", func(Props) *Element {
		return Render(inner, nil)
	})

	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, h("section", nil, h("h1", nil), Render(outer, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if got := container.innerMarkup(); got != "<section><h1></h1><p>deep</p></section>" {
		t.Fatalf("markup = %s", got)
	}
	host.reset()

	w2, err := runPass(host, container, w1.Root, h("section", nil, h("h1", nil)))
	if err != nil {
		t.Fatal(err)
	}
	if len(w2.Deletions) != 1 || w2.Deletions[0].Kind.Comp != outer {
		t.Fatalf("deletions = %v, want the Outer component", w2.Deletions)
	}
	if len(host.ops) != 1 || host.ops[0] != "remove section>p" {
		t.Errorf("ops = %v, want [remove section>p]", host.ops)
	}
	if got := container.innerMarkup(); got != "<section><h1></h1></section>" {
		t.Errorf("markup = %s", got)
	}
}

func TestCommitOrderParentsFirst(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	if _, err := runPass(host, container, nil, h("div", nil, h("p", nil, Text("x")), h("span", nil))); err != nil {
		t.Fatal(err)
	}

	var appends []string
	for _, op := range host.ops {
		if strings.HasPrefix(op, "append") {
			appends = append(appends, op)
		}
	}
	want := []string{"append container>div", "append div>p", "append p>#text", "append div>span"}
	if strings.Join(appends, "|") != strings.Join(want, "|") {
		t.Errorf("appends = %v, want %v", appends, want)
	}
}

func TestCommitAttributeDiff(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, h("div", Props{"class": "a", "id": "x"}))
	if err != nil {
		t.Fatal(err)
	}
	host.reset()

	if _, err := runPass(host, container, w1.Root, h("div", Props{"class": "b", "title": "t"})); err != nil {
		t.Fatal(err)
	}
	want := []string{"unset div.id", "set div.class=b", "set div.title=t"}
	if strings.Join(host.ops, "|") != strings.Join(want, "|") {
		t.Errorf("ops = %v, want %v", host.ops, want)
	}
	if got := container.innerMarkup(); got != `<div class="b" title="t"></div>` {
		t.Errorf("markup = %s", got)
	}
}

func TestCommitDropsAlternates(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	w2, err := runPass(host, container, w1.Root, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	Walk(w2.Root, func(n *Node) bool {
		if n.Alternate != nil {
			t.Errorf("%s still links the previous generation", n.Kind)
		}
		return true
	})
}

func TestMalformedDescriptions(t *testing.T) {
	tests := []struct {
		name string
		desc *Element
		code string
	}{
		{
			name: "missing kind at root",
			desc: &Element{},
			code: "A001",
		},
		{
			name: "missing kind in children",
			desc: h("div", nil, &Element{Props: Props{}}),
			code: "A001",
		},
		{
			name: "empty host tag",
			desc: h("div", nil, &Element{Kind: HostType("")}),
			code: "A001",
		},
		{
			name: "children not a sequence",
			desc: &Element{Kind: HostType("ul"), Props: Props{ChildrenKey: "li"}},
			code: "A002",
		},
		{
			name: "nil child",
			desc: h("ul", nil, h("li", nil), nil),
			code: "A002",
		},
		{
			name: "text with children",
			desc: h("p", nil, &Element{
				Kind:  HostType(TextTag),
				Props: Props{NodeValue: "a", ChildrenKey: []*Element{h("b", nil)}},
			}),
			code: "A002",
		},
		{
			name: "event prop is not a handler",
			desc: h("button", Props{"onClick": func(Event) {}}),
			code: "A004",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := newFakeHost()
			container := host.container()

			_, err := runPass(host, container, nil, tc.desc)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrMalformedDescription) {
				t.Errorf("err = %v, want ErrMalformedDescription", err)
			}
			if got := arborerrors.CodeOf(err); got != tc.code {
				t.Errorf("code = %q, want %q", got, tc.code)
			}
			for _, op := range host.ops {
				if strings.HasPrefix(op, "append") {
					t.Errorf("host tree mutated: %s", op)
				}
			}
		})
	}
}

func TestComponentPanic(t *testing.T) {
	broken := NewComponent("Broken", func(Props) *Element {
		panic("boom")
	})

	host := newFakeHost()
	_, err := runPass(host, host.container(), nil, h("div", nil, Render(broken, nil)))
	if !errors.Is(err, ErrComponentFailure) {
		t.Fatalf("err = %v, want ErrComponentFailure", err)
	}
	if arborerrors.CodeOf(err) != "A003" {
		t.Errorf("code = %q", arborerrors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry the panic value", err)
	}
}

func TestMaterializeFailure(t *testing.T) {
	host := newFakeHost()
	host.failOn = "create li"

	_, err := runPass(host, host.container(), nil, list("a"))
	if !errors.Is(err, ErrHostAdapter) {
		t.Fatalf("err = %v, want ErrHostAdapter", err)
	}
	if arborerrors.CodeOf(err) != "A010" {
		t.Errorf("code = %q, want A010", arborerrors.CodeOf(err))
	}
}

func TestCommitFailure(t *testing.T) {
	host := newFakeHost()
	host.failOn = "append ul>li"
	container := host.container()

	_, err := runPass(host, container, nil, list("a", "b"))
	if !errors.Is(err, ErrHostAdapter) {
		t.Fatalf("err = %v, want ErrHostAdapter", err)
	}
	if arborerrors.CodeOf(err) != "A011" {
		t.Errorf("code = %q, want A011", arborerrors.CodeOf(err))
	}
	// The commit stops where it failed, leaving the host partially mutated.
	if got := container.innerMarkup(); got != "<ul></ul>" {
		t.Errorf("markup = %s", got)
	}
}

func TestRemoveOfDetachedNodeFails(t *testing.T) {
	host := newFakeHost()
	container := host.container()

	w1, err := runPass(host, container, nil, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	// Detach the second item behind the engine's back.
	ul := w1.Root.Child.Handle.(*fakeNode)
	ul.children = ul.children[:1]

	_, err = runPass(host, container, w1.Root, list("a"))
	if !errors.Is(err, ErrHostAdapter) || arborerrors.CodeOf(err) != "A011" {
		t.Errorf("err = %v, want A011 host failure", err)
	}
}

// releasingHost is a fakeHost that also implements Releaser.
type releasingHost struct {
	*fakeHost
	released []string
}

func (h *releasingHost) Release(handle Handle) error {
	n := handle.(*fakeNode)
	if n.parent == nil {
		h.released = append(h.released, n.tag)
	}
	return nil
}

func TestReleaseHandsBackPlacements(t *testing.T) {
	host := &releasingHost{fakeHost: newFakeHost()}
	container := host.container()

	w1, err := runPass(host, container, nil, list("a"))
	if err != nil {
		t.Fatal(err)
	}

	w2, err := expand(host, container, w1.Root, list("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	n, err := w2.Release()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("released %d handles, want 2", n)
	}
	if got := strings.Join(host.released, ","); got != "li,#text" {
		t.Errorf("released = %s, want li,#text", got)
	}
	if got := container.innerMarkup(); got != "<ul><li>a</li></ul>" {
		t.Errorf("committed markup changed: %s", got)
	}
}

func TestReleaseWithoutReleaser(t *testing.T) {
	host := newFakeHost()
	w, err := expand(host, host.container(), nil, list("a"))
	if err != nil {
		t.Fatal(err)
	}
	if n, err := w.Release(); n != 0 || err != nil {
		t.Errorf("Release() = %d, %v; want 0, nil", n, err)
	}
}
