package zone

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// decoder walks a generic JSON tree and collects issues. A decoder is owned by
// a single goroutine; concurrent feature validation uses one per feature.
type decoder struct {
	opts     Options
	errs     []*ValidationErrorDetail
	warnings []*ValidationErrorDetail
}

func newDecoder(opts Options) *decoder {
	return &decoder{opts: opts}
}

func (d *decoder) fail(p Path, kind Kind, cause error, format string, args ...interface{}) {
	d.errs = append(d.errs, &ValidationErrorDetail{
		Path:    p,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	})
}

func (d *decoder) warn(p Path, kind Kind, format string, args ...interface{}) {
	d.warnings = append(d.warnings, &ValidationErrorDetail{
		Path:    p,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// mark and okSince let a caller tell whether a subtree added any issue.
func (d *decoder) mark() int { return len(d.errs) }

func (d *decoder) okSince(mark int) bool { return len(d.errs) == mark }

func (d *decoder) merge(o *decoder) {
	d.errs = append(d.errs, o.errs...)
	d.warnings = append(d.warnings, o.warnings...)
}

func (d *decoder) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: d.errs}
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// object tracks which members of a JSON object were consumed so that the
// remaining ones can be reported once the object is closed.
type object struct {
	d     *decoder
	path  Path
	m     map[string]interface{}
	known map[string]bool
}

func (d *decoder) object(p Path, v interface{}) *object {
	m, ok := v.(map[string]interface{})
	if !ok {
		d.fail(p, KindTypeMismatch, nil, "expected object, got %s", jsonType(v))
		return nil
	}
	return &object{d: d, path: p, m: m, known: make(map[string]bool, len(m))}
}

// allow marks members as recognized without reading them.
func (o *object) allow(keys ...string) {
	for _, k := range keys {
		o.known[k] = true
	}
}

// optional returns a member unless it is missing or null. With EmptyAsNull an
// empty string also counts as missing.
func (o *object) optional(key string) (interface{}, Path, bool) {
	o.known[key] = true
	v, ok := o.m[key]
	if !ok || v == nil {
		return nil, nil, false
	}
	if o.d.opts.EmptyAsNull && emptyToNil(v) == nil {
		return nil, nil, false
	}
	return v, o.path.Key(key), true
}

// required returns a member, reporting it when missing or null.
func (o *object) required(key string) (interface{}, Path, bool) {
	o.known[key] = true
	p := o.path.Key(key)
	v, ok := o.m[key]
	if !ok || v == nil {
		o.d.fail(p, KindMissingRequiredField, nil, "field required")
		return nil, p, false
	}
	return v, p, true
}

// close reports members that were never looked at.
func (o *object) close() {
	var unknown []string
	for k := range o.m {
		if !o.known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		if o.d.opts.IgnoreUnknownFields {
			o.d.warn(o.path.Key(k), KindUnexpectedField, "unrecognized field ignored")
			continue
		}
		o.d.fail(o.path.Key(k), KindUnexpectedField, nil, "unrecognized field")
	}
}

func (d *decoder) str(p Path, v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		d.fail(p, KindTypeMismatch, nil, "expected string, got %s", jsonType(v))
		return "", false
	}
	return s, true
}

// bounded checks a string against a rune-count bound and an optional pattern.
// A negative minimum disables the lower bound.
func (d *decoder) bounded(p Path, v interface{}, min, max int, pattern *regexp.Regexp) (string, bool) {
	s, ok := d.str(p, v)
	if !ok {
		return "", false
	}
	n := utf8.RuneCountInString(s)
	if min > 0 && n < min {
		d.fail(p, KindConstraintViolation, nil, "string should have at least %d characters, got %d (%q)", min, n, s)
		return "", false
	}
	if max > 0 && n > max {
		d.fail(p, KindConstraintViolation, nil, "string should have at most %d characters, got %d", max, n)
		return "", false
	}
	if pattern != nil && !pattern.MatchString(s) {
		d.fail(p, KindConstraintViolation, nil, "string should match pattern %q, got %q", pattern.String(), s)
		return "", false
	}
	return s, true
}

func (d *decoder) number(p Path, v interface{}) (float64, bool) {
	switch n := v.(type) {
	case bool:
	case string:
		if d.opts.LaxScalars {
			if f, err := cast.ToFloat64E(n); err == nil {
				return f, true
			}
		}
	default:
		if jsonType(v) == "number" {
			f, err := cast.ToFloat64E(v)
			if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		}
	}
	d.fail(p, KindTypeMismatch, nil, "expected number, got %s", jsonType(v))
	return 0, false
}

func (d *decoder) integer(p Path, v interface{}, min, max int) (int, bool) {
	f, ok := d.number(p, v)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		d.fail(p, KindTypeMismatch, nil, "expected integer, got %v", f)
		return 0, false
	}
	if f < float64(min) || f > float64(max) {
		d.fail(p, KindConstraintViolation, nil, "value should be between %d and %d, got %v", min, max, f)
		return 0, false
	}
	return int(f), true
}

// code decodes a member of a closed code list, normalizing it first when the
// options ask for it.
func (d *decoder) code(p Path, v interface{}, list *codeList) (string, bool) {
	if d.opts.FoldCase {
		if list.lower {
			v = toLower(v)
		} else {
			v = toUpper(v)
		}
	}
	if list.legacy && d.opts.TranslateSpelling {
		v = translateAuthorisation(v)
	}
	s, ok := d.str(p, v)
	if !ok {
		return "", false
	}
	if !list.contains(s) {
		d.fail(p, KindInvalidValue, nil, "%s should be one of %s, got %q", list.name, list.describe(), s)
		return "", false
	}
	return s, true
}

// list returns the elements of a JSON array. When coerce is set and
// ListCoercion is enabled a scalar is wrapped in a single-element list. A zero
// max disables the upper bound.
func (d *decoder) list(p Path, v interface{}, min, max int, coerce bool) ([]interface{}, bool) {
	l, ok := v.([]interface{})
	if !ok {
		if !coerce || !d.opts.ListCoercion {
			d.fail(p, KindTypeMismatch, nil, "expected array, got %s", jsonType(v))
			return nil, false
		}
		l = toList(v)
	}
	if len(l) < min {
		d.fail(p, KindConstraintViolation, nil, "list should have at least %d items, got %d", min, len(l))
		return nil, false
	}
	if max > 0 && len(l) > max {
		d.fail(p, KindConstraintViolation, nil, "list should have at most %d items, got %d", max, len(l))
		return nil, false
	}
	return l, true
}

// decodeList decodes every element, reporting all failing ones.
func decodeList[T any](d *decoder, p Path, v interface{}, min, max int, coerce bool, elem func(Path, interface{}) (T, bool)) ([]T, bool) {
	items, ok := d.list(p, v, min, max, coerce)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(items))
	good := true
	for i, item := range items {
		t, ok := elem(p.Index(i), item)
		if !ok {
			good = false
			continue
		}
		out = append(out, t)
	}
	if !good {
		return nil, false
	}
	return out, true
}

// bbox decodes the optional GeoJSON bounding box of an object.
func (d *decoder) bbox(o *object) []float64 {
	v, p, ok := o.optional("bbox")
	if !ok {
		return nil
	}
	box, ok := decodeList(d, p, v, 0, 0, false, d.number)
	if !ok {
		return nil
	}
	if len(box) != 4 && len(box) != 6 {
		d.fail(p, KindConstraintViolation, nil, "bbox should have 4 or 6 numbers, got %d", len(box))
		return nil
	}
	return box
}
