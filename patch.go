package ppcp

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type PatchOpType string

const (
	POAdd     PatchOpType = "add"
	PORemove  PatchOpType = "remove"
	POReplace PatchOpType = "replace"
)

// PatchOp is a JSON-Patch-like operation on an order.
//
// Path is slash separated. A segment is a JSON field name, an index into a sequence,
// or a reference selector such as @reference_id=='default' which picks
// the first element of a sequence whose field equals the quoted value:
//
//	/purchase_units/@reference_id=='default'/shipping/address
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_patch.
type PatchOp struct {
	Op    PatchOpType `json:"op,omitempty" validate:"required,oneof=add remove replace"`
	Path  string      `json:"path,omitempty" validate:"required"`
	Value any         `json:"value,omitempty" validate:"required_unless=Op remove"`
}

// Patch is the request body of [Client.UpdateOrder].
type Patch []*PatchOp

// ValidatePatchOp checks that op carries an op, a path and, unless it removes, a value.
// The path itself is not resolved.
func ValidatePatchOp(op *PatchOp) error {
	if op == nil {
		return &MissingFieldError{Field: "op"}
	}
	return check(op)
}

// ValidatePatch validates every operation of p.
// If o is not nil the operations are also applied to it in order,
// so a path that does not exist in o is reported.
func ValidatePatch(o *Order, p Patch) error {
	if len(p) == 0 {
		return &MissingFieldError{Field: "body"}
	}
	for _, op := range p {
		if err := ValidatePatchOp(op); err != nil {
			return err
		}
	}
	if o == nil {
		return nil
	}
	_, err := ApplyPatch(o, p)
	return err
}

// TargetRef is the location a path resolved to.
type TargetRef struct {
	// Path is the resolved path with every selector replaced by the matched index.
	Path []string
	// Value is the value found at Path, e.g. an [*Amount].
	Value any
}

// Pointer returns the resolved path in the slash form.
func (r *TargetRef) Pointer() string {
	return "/" + strings.Join(r.Path, "/")
}

// Resolve locates the value path points to in o.
// The path is resolved against a copy of o, so changes to the returned value
// do not reach o.
//
// It returns a [NoSuchReferenceError] if a selector matches nothing and
// a [NoSuchFieldError] if a segment is unknown or its value is absent.
func Resolve(o *Order, path string) (*TargetRef, error) {
	if o == nil {
		return nil, &MissingFieldError{Field: "order"}
	}
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cp, err := cloneOrder(o)
	if err != nil {
		return nil, err
	}
	c, err := walk(reflect.ValueOf(cp).Elem(), segs)
	if err != nil {
		return nil, err
	}
	return &TargetRef{Path: c.path, Value: c.v.Interface()}, nil
}

// Apply applies op to a copy of o and returns the copy. The operation is
// validated before its path is resolved, and o is never modified.
//
//   - replace requires the target to exist and overwrites it with the value.
//   - add requires the parent to exist. An absent target is created, an object
//     target has the fields of the value merged in, and an index into a sequence
//     inserts the value before it ("-" or the length appends).
//   - remove requires the target to exist. A field is cleared and a sequence
//     element is deleted.
func Apply(o *Order, op *PatchOp) (*Order, error) {
	if err := ValidatePatchOp(op); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &MissingFieldError{Field: "order"}
	}
	segs, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	res, err := cloneOrder(o)
	if err != nil {
		return nil, err
	}
	parent, err := walk(reflect.ValueOf(res).Elem(), segs[:len(segs)-1])
	if err != nil {
		return nil, err
	}
	last := segs[len(segs)-1]
	container := indirect(parent.v)

	switch op.Op {
	case POReplace:
		target, _, err := step(parent.v, last)
		if err != nil {
			return nil, err
		}
		if target.IsZero() {
			return nil, &NoSuchFieldError{Segment: last.raw}
		}
		err = assign(target, op.Value, last.raw, false)
		return res, err

	case POAdd:
		if container.Kind() == reflect.Slice {
			i, ok := insertIndex(container, last)
			if !ok {
				return nil, &NoSuchFieldError{Segment: last.raw}
			}
			elem := reflect.New(container.Type().Elem()).Elem()
			if err := assign(elem, op.Value, last.raw, false); err != nil {
				return nil, err
			}
			n := reflect.MakeSlice(container.Type(), 0, container.Len()+1)
			n = reflect.AppendSlice(n, container.Slice(0, i))
			n = reflect.Append(n, elem)
			n = reflect.AppendSlice(n, container.Slice(i, container.Len()))
			container.Set(n)
			return res, nil
		}
		target, _, err := step(parent.v, last)
		if err != nil {
			return nil, err
		}
		err = assign(target, op.Value, last.raw, true)
		return res, err

	case PORemove:
		target, key, err := step(parent.v, last)
		if err != nil {
			return nil, err
		}
		if target.IsZero() {
			return nil, &NoSuchFieldError{Segment: last.raw}
		}
		if container.Kind() == reflect.Slice {
			i, _ := strconv.Atoi(key)
			n := reflect.MakeSlice(container.Type(), 0, container.Len()-1)
			n = reflect.AppendSlice(n, container.Slice(0, i))
			n = reflect.AppendSlice(n, container.Slice(i+1, container.Len()))
			container.Set(n)
			return res, nil
		}
		target.Set(reflect.Zero(target.Type()))
		return res, nil
	}
	return nil, &InvalidEnumError{Field: "op", Value: string(op.Op)}
}

// ApplyPatch applies the operations of p in order to a copy of o.
func ApplyPatch(o *Order, p Patch) (res *Order, err error) {
	if o == nil {
		return nil, &MissingFieldError{Field: "order"}
	}
	if len(p) == 0 {
		return cloneOrder(o)
	}
	res = o
	for i, op := range p {
		if res, err = Apply(res, op); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return
}

type segment struct {
	raw string

	// For selectors
	key, ref string
	selector bool
}

func parsePath(path string) (res []segment, err error) {
	if !strings.HasPrefix(path, "/") {
		return nil, &PathError{Path: path, Reason: "must start with /"}
	}
	raws, ok := splitPath(path[1:])
	if !ok {
		return nil, &PathError{Path: path, Reason: "unterminated quote"}
	}
	for _, raw := range raws {
		if raw == "" {
			return nil, &PathError{Path: path, Reason: "empty segment"}
		}
		seg := segment{raw: raw}
		if raw[0] == '@' {
			seg.key, seg.ref, ok = parseSelector(raw[1:])
			if !ok {
				return nil, &PathError{Path: path, Reason: "malformed selector " + raw}
			}
			seg.selector = true
		}
		res = append(res, seg)
	}
	return
}

// splitPath splits s on slashes that are not quoted.
func splitPath(s string) (res []string, ok bool) {
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case '/':
			if !quoted {
				res = append(res, s[start:i])
				start = i + 1
			}
		}
	}
	return append(res, s[start:]), !quoted
}

// parseSelector parses key=='ref'.
func parseSelector(s string) (key, ref string, ok bool) {
	key, quoted, found := strings.Cut(s, "==")
	if !found || key == "" || len(quoted) < 2 {
		return
	}
	if quoted[0] != '\'' || quoted[len(quoted)-1] != '\'' {
		return
	}
	return key, quoted[1 : len(quoted)-1], true
}

type cursor struct {
	v    reflect.Value
	path []string
}

// walk follows segs from root. Every value on the way must be present.
func walk(root reflect.Value, segs []segment) (c cursor, err error) {
	c.v = root
	for _, seg := range segs {
		next, key, err := step(c.v, seg)
		if err != nil {
			return c, err
		}
		if next.IsZero() {
			return c, &NoSuchFieldError{Segment: seg.raw}
		}
		c.v = next
		c.path = append(c.path, key)
	}
	return
}

// step returns the child of v named by seg and the normalized key of the child.
// The child may be absent.
func step(v reflect.Value, seg segment) (res reflect.Value, key string, err error) {
	v = indirect(v)
	switch {
	case seg.selector:
		if v.Kind() != reflect.Slice {
			return res, "", &NoSuchFieldError{Segment: seg.raw}
		}
		for i := 0; i < v.Len(); i++ {
			elem := indirect(v.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			f, ok := fieldByJSON(elem, seg.key)
			if !ok {
				return res, "", &NoSuchFieldError{Segment: seg.key}
			}
			if f.Kind() == reflect.String && f.String() == seg.ref {
				return v.Index(i), strconv.Itoa(i), nil
			}
		}
		return res, "", &NoSuchReferenceError{ID: seg.ref}

	case v.Kind() == reflect.Slice:
		i, err := strconv.Atoi(seg.raw)
		if err != nil || i < 0 || i >= v.Len() {
			return res, "", &NoSuchFieldError{Segment: seg.raw}
		}
		return v.Index(i), seg.raw, nil

	case v.Kind() == reflect.Struct:
		f, ok := fieldByJSON(v, seg.raw)
		if !ok {
			return res, "", &NoSuchFieldError{Segment: seg.raw}
		}
		return f, seg.raw, nil
	}
	return res, "", &NoSuchFieldError{Segment: seg.raw}
}

func insertIndex(s reflect.Value, seg segment) (int, bool) {
	if seg.selector {
		return 0, false
	}
	if seg.raw == "-" {
		return s.Len(), true
	}
	i, err := strconv.Atoi(seg.raw)
	if err != nil || i < 0 || i > s.Len() {
		return 0, false
	}
	return i, true
}

func indirect(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func fieldByJSON(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// assign decodes value into target through its JSON form.
// If merge is true and the target is an object,
// the fields of value are merged into the current target.
func assign(target reflect.Value, value any, field string, merge bool) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	p := reflect.New(target.Type())
	if merge && indirect(target).Kind() == reflect.Struct {
		p.Elem().Set(target)
	}
	if err = json.Unmarshal(bs, p.Interface()); err != nil {
		return &InvalidValueError{Field: field, Value: string(bs)}
	}
	target.Set(p.Elem())
	return nil
}

func cloneOrder(o *Order) (*Order, error) {
	bs, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}
	res := new(Order)
	if err = json.Unmarshal(bs, res); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return res, nil
}
