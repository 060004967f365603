package el

import (
	"fmt"

	"github.com/vango-dev/arbor/pkg/fiber"
)

// Text creates a text element.
func Text(content string) *fiber.Element {
	return fiber.Text(content)
}

// Textf creates a text element from a format string.
func Textf(format string, args ...any) *fiber.Element {
	return fiber.Text(fmt.Sprintf(format, args...))
}

// If returns node if condition is true, otherwise nil.
func If(condition bool, node *fiber.Element) *fiber.Element {
	if condition {
		return node
	}
	return nil
}

// IfElse returns ifTrue if condition is true, otherwise ifFalse.
func IfElse(condition bool, ifTrue, ifFalse *fiber.Element) *fiber.Element {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When calls fn only if condition is true.
func When(condition bool, fn func() *fiber.Element) *fiber.Element {
	if condition {
		return fn()
	}
	return nil
}

// Map renders each item to an element, dropping nil results.
func Map[T any](items []T, fn func(T) *fiber.Element) []*fiber.Element {
	out := make([]*fiber.Element, 0, len(items))
	for _, item := range items {
		if e := fn(item); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// MapIndex is like Map but also passes the index.
func MapIndex[T any](items []T, fn func(int, T) *fiber.Element) []*fiber.Element {
	out := make([]*fiber.Element, 0, len(items))
	for i, item := range items {
		if e := fn(i, item); e != nil {
			out = append(out, e)
		}
	}
	return out
}
