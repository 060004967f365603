package fiber

import (
	"fmt"
	"reflect"
	"strconv"
)

// PropOp is the type of a host property operation.
type PropOp uint8

const (
	PropRemoveListener PropOp = 0x01 // Detach a stale listener
	PropUnset          PropOp = 0x02 // Clear a removed attribute
	PropSet            PropOp = 0x03 // Apply a new or changed attribute
	PropAddListener    PropOp = 0x04 // Attach a new or changed listener
)

// String returns the string representation of the PropOp.
func (op PropOp) String() string {
	switch op {
	case PropRemoveListener:
		return "RemoveListener"
	case PropUnset:
		return "Unset"
	case PropSet:
		return "Set"
	case PropAddListener:
		return "AddListener"
	default:
		return "Unknown"
	}
}

// PropPatch is a single host property operation.
type PropPatch struct {
	Op       PropOp
	Key      string        // Attribute key or event prop key
	Event    string        // Event name, for listener ops
	Value    any           // New value, for PropSet
	Listener *EventHandler // For listener ops
}

// DiffProps computes the host operations turning prev into next.
//
// The result is ordered in four groups: stale listeners are detached, then
// removed attributes are unset, then new or changed attributes are set, and
// finally new or changed listeners are attached. A listener replaced under
// the same key is therefore always detached before its successor is
// attached. Within a group keys are sorted. The children prop is ignored.
func DiffProps(prev, next Props) []PropPatch {
	var patches []PropPatch
	prevKeys := prev.Keys()
	nextKeys := next.Keys()

	for _, key := range prevKeys {
		if !IsEventKey(key) {
			continue
		}
		nextVal, exists := next[key]
		if exists && propsEqual(prev[key], nextVal) {
			continue
		}
		if l, _ := prev[key].(*EventHandler); l != nil {
			patches = append(patches, PropPatch{Op: PropRemoveListener, Key: key, Event: EventName(key), Listener: l})
		}
	}

	for _, key := range prevKeys {
		if IsEventKey(key) {
			continue
		}
		if _, exists := next[key]; !exists {
			patches = append(patches, PropPatch{Op: PropUnset, Key: key})
		}
	}

	for _, key := range nextKeys {
		if IsEventKey(key) {
			continue
		}
		prevVal, exists := prev[key]
		if !exists || !propsEqual(prevVal, next[key]) {
			patches = append(patches, PropPatch{Op: PropSet, Key: key, Value: next[key]})
		}
	}

	for _, key := range nextKeys {
		if !IsEventKey(key) {
			continue
		}
		prevVal, exists := prev[key]
		if exists && propsEqual(prevVal, next[key]) {
			continue
		}
		if l, _ := next[key].(*EventHandler); l != nil {
			patches = append(patches, PropPatch{Op: PropAddListener, Key: key, Event: EventName(key), Listener: l})
		}
	}

	return patches
}

// applyProps applies patches to the host node h.
func applyProps(host HostAdapter, h Handle, patches []PropPatch) (int, error) {
	for i, p := range patches {
		var err error
		switch p.Op {
		case PropRemoveListener:
			err = host.RemoveListener(h, p.Event, p.Listener)
		case PropUnset:
			err = host.UnsetProperty(h, p.Key)
		case PropSet:
			err = host.SetProperty(h, p.Key, p.Value)
		case PropAddListener:
			err = host.AddListener(h, p.Event, p.Listener)
		}
		if err != nil {
			return i, err
		}
	}
	return len(patches), nil
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case *EventHandler:
		bv, ok := b.(*EventHandler)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// PropString converts a prop value to its attribute string form.
func PropString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case interface{ String() string }:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
