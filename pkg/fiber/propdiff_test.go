package fiber

import (
	"testing"
)

func TestDiffPropsOrdering(t *testing.T) {
	oldClick := Handler(func(Event) {})
	newClick := Handler(func(Event) {})
	hover := Handler(func(Event) {})
	focus := Handler(func(Event) {})

	prev := Props{
		"class":       "a",
		"id":          "x",
		"onClick":     oldClick,
		"onMouseOver": hover,
		ChildrenKey:   []*Element{Text("ignored")},
	}
	next := Props{
		"class":   "b",
		"title":   "t",
		"onClick": newClick,
		"onFocus": focus,
	}

	got := DiffProps(prev, next)
	want := []PropPatch{
		{Op: PropRemoveListener, Key: "onClick", Event: "click", Listener: oldClick},
		{Op: PropRemoveListener, Key: "onMouseOver", Event: "mouseover", Listener: hover},
		{Op: PropUnset, Key: "id"},
		{Op: PropSet, Key: "class", Value: "b"},
		{Op: PropSet, Key: "title", Value: "t"},
		{Op: PropAddListener, Key: "onClick", Event: "click", Listener: newClick},
		{Op: PropAddListener, Key: "onFocus", Event: "focus", Listener: focus},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d patches, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("patch %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiffPropsNoChange(t *testing.T) {
	l := Handler(func(Event) {})
	tests := []struct {
		name string
		p    Props
	}{
		{"empty", Props{}},
		{"strings", Props{"class": "a", "id": "b"}},
		{"mixed scalars", Props{"tabindex": 3, "hidden": true, "ratio": 0.5}},
		{"listener", Props{"onClick": l}},
		{"slice value", Props{"data": []string{"a", "b"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			copied := Props{}
			for k, v := range tc.p {
				copied[k] = v
			}
			if diff := DiffProps(tc.p, copied); len(diff) != 0 {
				t.Errorf("diff = %v, want none", diff)
			}
		})
	}
}

func TestDiffPropsTypeChange(t *testing.T) {
	diff := DiffProps(Props{"tabindex": 1}, Props{"tabindex": "1"})
	if len(diff) != 1 || diff[0].Op != PropSet {
		t.Errorf("diff = %v, want one Set", diff)
	}
}

func TestEventKeys(t *testing.T) {
	tests := []struct {
		key     string
		isEvent bool
		name    string
	}{
		{"onClick", true, "click"},
		{"onclick", true, "click"},
		{"ONINPUT", true, "input"},
		{"onMouseOver", true, "mouseover"},
		{"on", false, ""},
		{"one", true, "e"},
		{"class", false, ""},
		{"", false, ""},
	}
	for _, tc := range tests {
		if got := IsEventKey(tc.key); got != tc.isEvent {
			t.Errorf("IsEventKey(%q) = %v, want %v", tc.key, got, tc.isEvent)
			continue
		}
		if tc.isEvent {
			if got := EventName(tc.key); got != tc.name {
				t.Errorf("EventName(%q) = %q, want %q", tc.key, got, tc.name)
			}
		}
	}
}

func TestPropsAttrsAndKeys(t *testing.T) {
	p := Props{
		"b":         1,
		"a":         "x",
		"onClick":   Handler(nil),
		ChildrenKey: []*Element{},
	}
	keys := p.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "onClick" {
		t.Errorf("Keys() = %v", keys)
	}
	attrs := p.Attrs()
	if len(attrs) != 2 || attrs["a"] != "x" || attrs["b"] != 1 {
		t.Errorf("Attrs() = %v", attrs)
	}
}

func TestPropString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{EffectTag(Update), "Update"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tc := range tests {
		if got := PropString(tc.in); got != tc.want {
			t.Errorf("PropString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPropOpString(t *testing.T) {
	if PropRemoveListener.String() != "RemoveListener" || PropAddListener.String() != "AddListener" {
		t.Error("unexpected PropOp names")
	}
	if PropOp(0).String() != "Unknown" {
		t.Error("zero PropOp should be Unknown")
	}
}
