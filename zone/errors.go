package zone

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a validation issue.
type Kind int

const (
	_ Kind = iota
	KindConstraintViolation
	KindInvalidValue
	KindCoordinateDepthMismatch
	KindUnknownVariant
	KindMissingRequiredField
	KindMutuallyExclusiveFields
	KindTypeMismatch
	KindUnexpectedField
)

var kindNames = map[Kind]string{
	KindConstraintViolation:     "ConstraintViolation",
	KindInvalidValue:            "InvalidValue",
	KindCoordinateDepthMismatch: "CoordinateDepthMismatch",
	KindUnknownVariant:          "UnknownVariant",
	KindMissingRequiredField:    "MissingRequiredField",
	KindMutuallyExclusiveFields: "MutuallyExclusiveFields",
	KindTypeMismatch:            "TypeMismatch",
	KindUnexpectedField:         "UnexpectedField",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Path locates a value inside a document. Elements are either object keys
// (string) or list indexes (int).
type Path []interface{}

// Key returns a copy of the path extended with an object key.
func (p Path) Key(name string) Path {
	return p.extend(name)
}

// Index returns a copy of the path extended with a list index.
func (p Path) Index(i int) Path {
	return p.extend(i)
}

func (p Path) extend(elem interface{}) Path {
	n := make(Path, len(p), len(p)+1)
	copy(n, p)
	return append(n, elem)
}

// String renders the path as in features[3].properties.zoneAuthority[0].purpose.
func (p Path) String() string {
	var b strings.Builder
	for _, elem := range p {
		switch e := elem.(type) {
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e))
			b.WriteByte(']')
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, e)
		}
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ValidationErrorDetail is a single issue found while decoding a document.
type ValidationErrorDetail struct {
	Path    Path   `json:"path"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	// Cause carries kind-specific details, e.g. *DepthMismatchError.
	Cause error `json:"-"`
}

func (d *ValidationErrorDetail) Error() string {
	if len(d.Path) == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Message)
}

func (d *ValidationErrorDetail) Unwrap() error {
	return d.Cause
}

// ValidationError aggregates every issue that made a document invalid.
type ValidationError struct {
	Errors []*ValidationErrorDetail
}

func (err *ValidationError) Error() string {
	switch len(err.Errors) {
	case 0:
		return "validation issues: none"
	case 1:
		return "validation issues: " + err.Errors[0].Error()
	}
	msgs := make([]string, len(err.Errors))
	for i, d := range err.Errors {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("validation issues (%d): %s", len(err.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the details so errors.Is and errors.As see every issue.
func (err *ValidationError) Unwrap() []error {
	errs := make([]error, len(err.Errors))
	for i, d := range err.Errors {
		errs[i] = d
	}
	return errs
}

// Has reports whether any issue is of the given kind.
func (err *ValidationError) Has(kind Kind) bool {
	for _, d := range err.Errors {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Find returns the first issue reported at the given path, or nil.
func (err *ValidationError) Find(path string) *ValidationErrorDetail {
	for _, d := range err.Errors {
		if d.Path.String() == path {
			return d
		}
	}
	return nil
}

// DepthMismatchError is the cause of a KindCoordinateDepthMismatch issue.
type DepthMismatchError struct {
	Geometry GeometryType
	Expected int
	Actual   int

	// Candidates lists the geometry types whose expected depth equals Actual.
	Candidates []GeometryType
}

func (err *DepthMismatchError) Error() string {
	return fmt.Sprintf(
		"a %s is expected to have a coordinate array with %d levels of depth, got %d levels instead; possible types: %v",
		err.Geometry, err.Expected, err.Actual, err.Candidates)
}

// UnknownVariantError is the cause of a KindUnknownVariant issue.
type UnknownVariantError struct {
	Tag   string
	Valid []string
}

func (err *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown type %q, expected one of %s", err.Tag, strings.Join(err.Valid, ", "))
}

// ExclusiveFieldsError is the cause of a KindMutuallyExclusiveFields issue.
type ExclusiveFieldsError struct {
	Fields [2]string
}

func (err *ExclusiveFieldsError) Error() string {
	return fmt.Sprintf("%s and %s cannot be present simultaneously", err.Fields[0], err.Fields[1])
}
