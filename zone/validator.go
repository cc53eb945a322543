package zone

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JiscSD/ed318-validator/zone/schema"
)

// Object is a decoded GeoJSON object: a *FeatureCollection, a *Feature or a
// Geometry.
type Object interface {
	GeoJSONType() string
}

// Result is the outcome of a successful validation.
type Result struct {
	Object Object

	// Warnings lists what was dropped while normalizing, e.g. unrecognized
	// fields in coercive mode.
	Warnings []*ValidationErrorDetail
}

// Validator validates ED-318 documents. It holds no mutable state and can be
// shared between goroutines.
type Validator struct {
	mode   Mode
	opts   Options
	schema *schema.Checker
}

// Option customizes a Validator on top of its mode preset.
type Option func(*Validator)

// WithCollectAll keeps validating features after the first failing one.
func WithCollectAll(collect bool) Option {
	return func(v *Validator) { v.opts.CollectAll = collect }
}

// WithConcurrency validates up to n features in parallel.
func WithConcurrency(n int) Option {
	return func(v *Validator) { v.opts.Concurrency = n }
}

// WithLayerOrderCheck enables the upper >= lower vertical layer check.
func WithLayerOrderCheck(check bool) Option {
	return func(v *Validator) { v.opts.CheckLayerOrder = check }
}

// WithSchemaCheck runs the JSON Schema pre-check before decoding.
func WithSchemaCheck(c *schema.Checker) Option {
	return func(v *Validator) { v.schema = c }
}

// WithOptions replaces the options of the mode preset altogether.
func WithOptions(opts Options) Option {
	return func(v *Validator) { v.opts = opts }
}

// NewValidator returns a Validator for the given mode ("strict" or
// "coercive"; empty means strict).
func NewValidator(mode string, opts ...Option) (*Validator, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	v := &Validator{mode: m, opts: OptionsFor(m)}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *Validator) Mode() Mode { return v.mode }

func (v *Validator) Options() Options { return v.opts }

// Validate decodes a JSON document and validates it.
func (v *Validator) Validate(ctx context.Context, stream []byte) (*Result, error) {
	var doc interface{}
	if err := json.Unmarshal(stream, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %v", err)
	}
	return v.ValidateValue(ctx, doc)
}

// ValidateValue validates a generic JSON tree. The top-level type member
// selects between a FeatureCollection, a Feature and a geometry. The tree is
// not modified.
func (v *Validator) ValidateValue(ctx context.Context, doc interface{}) (*Result, error) {
	if v.schema != nil {
		issues, err := v.schema.Check(doc)
		if err != nil {
			return nil, fmt.Errorf("error running schema check: %w", err)
		}
		if len(issues) > 0 {
			return nil, schemaError(issues)
		}
	}
	d := newDecoder(v.opts)
	obj, err := d.document(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := d.err(); err != nil {
		return nil, err
	}
	return &Result{Object: obj, Warnings: d.warnings}, nil
}

func (d *decoder) document(ctx context.Context, doc interface{}) (Object, error) {
	m, ok := doc.(map[string]interface{})
	if !ok {
		d.fail(nil, KindTypeMismatch, nil, "expected object, got %s", jsonType(doc))
		return nil, nil
	}
	switch m["type"] {
	case typeFeatureCollection:
		c, ok, err := d.featureCollection(ctx, nil, doc)
		if !ok || err != nil {
			return nil, err
		}
		return c, nil
	case typeFeature:
		if f, ok := d.feature(nil, doc); ok {
			return f, nil
		}
		return nil, nil
	}
	if t, ok := m["type"].(string); ok {
		if _, known := coordinateDepths[GeometryType(t)]; !known && GeometryType(t) != GeometryTypeGeometryCollection {
			valid := append([]string{typeFeatureCollection, typeFeature}, validGeometryTags()...)
			cause := &UnknownVariantError{Tag: t, Valid: valid}
			d.fail(Path{"type"}, KindUnknownVariant, cause, "%v", cause)
			return nil, nil
		}
	}
	if g, ok := d.geometry(nil, doc); ok {
		return g, nil
	}
	return nil, nil
}

func schemaError(issues []schema.Issue) *ValidationError {
	err := &ValidationError{}
	for _, issue := range issues {
		err.Errors = append(err.Errors, &ValidationErrorDetail{
			Path:    Path(issue.Path),
			Kind:    schemaKind(issue.Type),
			Message: issue.Description,
		})
	}
	return err
}

// schemaKind maps gojsonschema error types onto issue kinds.
func schemaKind(t string) Kind {
	switch t {
	case "required":
		return KindMissingRequiredField
	case "invalid_type", "number_any_of", "number_one_of":
		return KindTypeMismatch
	case "enum", "const":
		return KindInvalidValue
	case "additional_property_not_allowed":
		return KindUnexpectedField
	}
	return KindConstraintViolation
}

func decodeWith[T any](v interface{}, opts Options, fn func(*decoder, Path, interface{}) (T, bool)) (T, error) {
	d := newDecoder(opts)
	t, ok := fn(d, nil, v)
	if err := d.err(); err != nil || !ok {
		var zero T
		return zero, err
	}
	return t, nil
}

// DecodeFeatureCollection validates a FeatureCollection tree.
func DecodeFeatureCollection(ctx context.Context, v interface{}, opts Options) (*FeatureCollection, error) {
	d := newDecoder(opts)
	c, ok, err := d.featureCollection(ctx, nil, v)
	if err != nil {
		return nil, err
	}
	if err := d.err(); err != nil || !ok {
		return nil, err
	}
	return c, nil
}

// DecodeFeature validates a Feature tree, reshaping legacy layouts first.
func DecodeFeature(v interface{}, opts Options) (*Feature, error) {
	return decodeWith(v, opts, (*decoder).feature)
}

// DecodeGeometry validates a geometry tree.
func DecodeGeometry(v interface{}, opts Options) (Geometry, error) {
	return decodeWith(v, opts, (*decoder).geometry)
}

// DecodeUASZone validates the properties of a zone feature.
func DecodeUASZone(v interface{}, opts Options) (*UASZone, error) {
	return decodeWith(v, opts, (*decoder).uasZone)
}

func DecodeAuthority(v interface{}, opts Options) (Authority, error) {
	return decodeWith(v, opts, (*decoder).authority)
}

func DecodeTimePeriod(v interface{}, opts Options) (TimePeriod, error) {
	return decodeWith(v, opts, (*decoder).timePeriod)
}

func DecodeDailyPeriod(v interface{}, opts Options) (DailyPeriod, error) {
	return decodeWith(v, opts, (*decoder).dailyPeriod)
}

func DecodeTextShort(v interface{}, opts Options) (TextShort, error) {
	return decodeWith(v, opts, (*decoder).textShort)
}

func DecodeTextLong(v interface{}, opts Options) (TextLong, error) {
	return decodeWith(v, opts, (*decoder).textLong)
}

func DecodeVerticalLayer(v interface{}, opts Options) (*VerticalLayer, error) {
	return decodeWith(v, opts, func(d *decoder, p Path, v interface{}) (*VerticalLayer, bool) {
		l := d.verticalLayer(p, v)
		return l, l != nil
	})
}
