package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/arbor/pkg/memdom"
)

// ExpectHTML asserts that the children of container serialize to want.
func ExpectHTML(t testing.TB, container *memdom.Node, want string) {
	t.Helper()
	if got := container.InnerHTML(); got != want {
		t.Errorf("html mismatch\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts that the rendered children of container contain
// expected.
func ExpectContains(t testing.TB, container *memdom.Node, expected string) {
	t.Helper()
	html := container.InnerHTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered children of container do not
// contain unexpected.
func ExpectNotContains(t testing.TB, container *memdom.Node, unexpected string) {
	t.Helper()
	html := container.InnerHTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectOps asserts that rec recorded exactly want, in order.
func ExpectOps(t testing.TB, rec *Recorder, want ...string) {
	t.Helper()
	got := rec.Ops()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("host ops mismatch\n got: %q\nwant: %q", got, want)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
