package vtest

import (
	"fmt"
	"strings"

	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/memdom"
)

// Recorder is a fiber.HostAdapter backed by a memdom.Document that records
// every primitive it is asked to perform.
//
// Operations are logged as:
//
//	create TAG
//	append PARENT>CHILD
//	remove PARENT>CHILD
//	set TAG.KEY=VALUE
//	unset TAG.KEY
//	listen TAG.EVENT
//	unlisten TAG.EVENT
//	release TAG
//	flush
type Recorder struct {
	Doc *memdom.Document

	ops      []string
	failures map[string]error
}

// NewRecorder creates a recorder over a fresh document.
func NewRecorder() *Recorder {
	return &Recorder{
		Doc:      memdom.New(),
		failures: make(map[string]error),
	}
}

// Container creates a detached element to render into.
func (r *Recorder) Container(tag string) *memdom.Node {
	return r.Doc.CreateElement(tag)
}

// FailOn makes the next operation whose log line starts with prefix fail
// with err. The failed operation is not recorded or performed.
func (r *Recorder) FailOn(prefix string, err error) {
	r.failures[prefix] = err
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []string {
	return append([]string(nil), r.ops...)
}

// Count returns how many recorded operations start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

// Reset clears the operation log.
func (r *Recorder) Reset() {
	r.ops = nil
}

func (r *Recorder) record(op string) error {
	for prefix, err := range r.failures {
		if strings.HasPrefix(op, prefix) {
			delete(r.failures, prefix)
			return err
		}
	}
	r.ops = append(r.ops, op)
	return nil
}

func tagOf(h fiber.Handle) string {
	if n, ok := h.(*memdom.Node); ok && n != nil {
		return n.Tag
	}
	return fmt.Sprintf("%T", h)
}

// CreateNode implements fiber.HostAdapter.
func (r *Recorder) CreateNode(tag string, attrs fiber.Props) (fiber.Handle, error) {
	if err := r.record("create " + tag); err != nil {
		return nil, err
	}
	return r.Doc.CreateNode(tag, attrs)
}

// AppendChild implements fiber.HostAdapter.
func (r *Recorder) AppendChild(parent, child fiber.Handle) error {
	if err := r.record("append " + tagOf(parent) + ">" + tagOf(child)); err != nil {
		return err
	}
	return r.Doc.AppendChild(parent, child)
}

// RemoveChild implements fiber.HostAdapter.
func (r *Recorder) RemoveChild(parent, child fiber.Handle) error {
	if err := r.record("remove " + tagOf(parent) + ">" + tagOf(child)); err != nil {
		return err
	}
	return r.Doc.RemoveChild(parent, child)
}

// SetProperty implements fiber.HostAdapter.
func (r *Recorder) SetProperty(h fiber.Handle, key string, value any) error {
	if err := r.record(fmt.Sprintf("set %s.%s=%s", tagOf(h), key, fiber.PropString(value))); err != nil {
		return err
	}
	return r.Doc.SetProperty(h, key, value)
}

// UnsetProperty implements fiber.HostAdapter.
func (r *Recorder) UnsetProperty(h fiber.Handle, key string) error {
	if err := r.record("unset " + tagOf(h) + "." + key); err != nil {
		return err
	}
	return r.Doc.UnsetProperty(h, key)
}

// AddListener implements fiber.HostAdapter.
func (r *Recorder) AddListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	if err := r.record("listen " + tagOf(h) + "." + event); err != nil {
		return err
	}
	return r.Doc.AddListener(h, event, l)
}

// RemoveListener implements fiber.HostAdapter.
func (r *Recorder) RemoveListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	if err := r.record("unlisten " + tagOf(h) + "." + event); err != nil {
		return err
	}
	return r.Doc.RemoveListener(h, event, l)
}

// Release implements fiber.Releaser.
func (r *Recorder) Release(h fiber.Handle) error {
	if err := r.record("release " + tagOf(h)); err != nil {
		return err
	}
	return r.Doc.Release(h)
}

// Flush implements fiber.Flusher.
func (r *Recorder) Flush() error {
	return r.record("flush")
}
