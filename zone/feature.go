package zone

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
	collectionNameMax     = 200
)

// Feature pairs a geometry with the zone it delimits.
type Feature struct {
	ID         interface{} `json:"id,omitempty"`
	Geometry   Geometry    `json:"geometry"`
	Properties *UASZone    `json:"properties"`
	BBox       []float64   `json:"bbox,omitzero"`
}

func (f *Feature) GeoJSONType() string { return typeFeature }

func (f *Feature) MarshalJSON() ([]byte, error) {
	type alias Feature
	return withType(typeFeature, (*alias)(f))
}

// FeatureCollection is a data set of zones plus the information qualifying
// the data set as a whole.
type FeatureCollection struct {
	Name     *string         `json:"name,omitempty"`
	Metadata DatasetMetadata `json:"metadata"`
	Features []*Feature      `json:"features"`
	BBox     []float64       `json:"bbox,omitzero"`
}

func (c *FeatureCollection) GeoJSONType() string { return typeFeatureCollection }

func (c *FeatureCollection) MarshalJSON() ([]byte, error) {
	type alias FeatureCollection
	return withType(typeFeatureCollection, (*alias)(c))
}

// literalType checks the type member of a Feature or FeatureCollection.
func (d *decoder) literalType(o *object, want string) {
	v, p, ok := o.required("type")
	if !ok {
		return
	}
	if s, ok := d.str(p, v); ok && s != want {
		d.fail(p, KindInvalidValue, nil, "type should be %q, got %q", want, s)
	}
}

func (d *decoder) featureID(p Path, v interface{}) interface{} {
	switch v.(type) {
	case string:
		return v
	}
	if jsonType(v) == "number" {
		return v
	}
	d.fail(p, KindTypeMismatch, nil, "expected string or number, got %s", jsonType(v))
	return nil
}

func (d *decoder) feature(p Path, v interface{}) (*Feature, bool) {
	o := d.object(p, Reshape(v))
	if o == nil {
		return nil, false
	}
	mark := d.mark()
	f := &Feature{}
	d.literalType(o, typeFeature)
	if v, p, ok := o.optional("id"); ok {
		f.ID = d.featureID(p, v)
	}
	if v, p, ok := o.required("geometry"); ok {
		f.Geometry, _ = d.geometry(p, v)
	}
	if v, p, ok := o.required("properties"); ok {
		f.Properties, _ = d.uasZone(p, d.unwrapEnvelope(p, v))
	}
	f.BBox = d.bbox(o)
	o.close()
	if !d.okSince(mark) {
		return nil, false
	}
	return f, true
}

// unwrapEnvelope reports a UASZone envelope that Reshape could not hoist
// because it is not an object, and hides it from the zone decoder.
func (d *decoder) unwrapEnvelope(p Path, props interface{}) interface{} {
	m, ok := props.(map[string]interface{})
	if !ok {
		return props
	}
	env, ok := m[envelopeKey]
	if !ok {
		return props
	}
	d.fail(p.Key(envelopeKey), KindTypeMismatch, nil, "expected object, got %s", jsonType(env))
	rest := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k != envelopeKey {
			rest[k] = v
		}
	}
	return rest
}

// featureCollection returns a non-nil error only when ctx is done.
func (d *decoder) featureCollection(ctx context.Context, p Path, v interface{}) (*FeatureCollection, bool, error) {
	o := d.object(p, v)
	if o == nil {
		return nil, false, nil
	}
	mark := d.mark()
	c := &FeatureCollection{}
	d.literalType(o, typeFeatureCollection)
	if v, p, ok := o.optional("name"); ok {
		if s, ok := d.bounded(p, v, 0, collectionNameMax, nil); ok {
			c.Name = &s
		}
	}
	if v, p, ok := o.optional("metadata"); ok {
		c.Metadata, _ = d.datasetMetadata(p, v)
	}
	c.BBox = d.bbox(o)
	if v, p, ok := o.required("features"); ok {
		if items, ok := d.list(p, v, 0, 0, false); ok {
			features, err := d.features(ctx, p, items)
			if err != nil {
				return nil, false, err
			}
			c.Features = features
		}
	}
	o.close()
	if !d.okSince(mark) {
		return nil, false, nil
	}
	return c, true, nil
}

// features decodes the members of a collection in order. Unless CollectAll is
// set, decoding stops at the first failing feature and only its issues are
// reported. With Concurrency above one, features are decoded in parallel and
// the failing feature reported is still the one with the lowest index.
func (d *decoder) features(ctx context.Context, p Path, items []interface{}) ([]*Feature, error) {
	results := make([]*Feature, len(items))
	subs := make([]*decoder, len(items))
	decodeOne := func(i int) bool {
		sub := newDecoder(d.opts)
		results[i], _ = sub.feature(p.Index(i), items[i])
		subs[i] = sub
		return len(sub.errs) == 0
	}

	if d.opts.Concurrency > 1 && len(items) > 1 {
		var firstFailed atomic.Int64
		firstFailed.Store(math.MaxInt64)
		skip := func(i int) bool {
			return !d.opts.CollectAll && int64(i) > firstFailed.Load()
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.opts.Concurrency)
		for i := range items {
			if skip(i) {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if skip(i) || decodeOne(i) {
					return nil
				}
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						return nil
					}
				}
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !decodeOne(i) && !d.opts.CollectAll {
				break
			}
		}
	}

	for _, sub := range subs {
		if sub == nil {
			continue
		}
		d.merge(sub)
		if len(sub.errs) > 0 && !d.opts.CollectAll {
			break
		}
	}
	return results, nil
}
