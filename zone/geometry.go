package zone

import "encoding/json"

// GeometryType is the discriminator of a geometry.
type GeometryType string

const (
	GeometryTypePoint              GeometryType = "Point"
	GeometryTypeMultiPoint         GeometryType = "MultiPoint"
	GeometryTypeLineString         GeometryType = "LineString"
	GeometryTypeMultiLineString    GeometryType = "MultiLineString"
	GeometryTypePolygon            GeometryType = "Polygon"
	GeometryTypeMultiPolygon       GeometryType = "MultiPolygon"
	GeometryTypeGeometryCollection GeometryType = "GeometryCollection"
)

// GeometryTypes lists every geometry tag in declaration order.
var GeometryTypes = []GeometryType{
	GeometryTypePoint,
	GeometryTypeMultiPoint,
	GeometryTypeLineString,
	GeometryTypeMultiLineString,
	GeometryTypePolygon,
	GeometryTypeMultiPolygon,
	GeometryTypeGeometryCollection,
}

// coordinateDepths is the list nesting depth of the coordinates of each
// coordinate-bearing geometry.
var coordinateDepths = map[GeometryType]int{
	GeometryTypePoint:           1,
	GeometryTypeMultiPoint:      2,
	GeometryTypeLineString:      2,
	GeometryTypeMultiLineString: 3,
	GeometryTypePolygon:         3,
	GeometryTypeMultiPolygon:    4,
}

// CoordinateDepth returns the expected coordinate depth of a geometry type.
// GeometryCollection has none.
func CoordinateDepth(t GeometryType) (int, bool) {
	depth, ok := coordinateDepths[t]
	return depth, ok
}

// typesWithDepth lists the geometry types whose coordinates nest depth levels.
func typesWithDepth(depth int) []GeometryType {
	var types []GeometryType
	for _, t := range GeometryTypes {
		if d, ok := coordinateDepths[t]; ok && d == depth {
			types = append(types, t)
		}
	}
	return types
}

// Geometry is one of *Point, *MultiPoint, *LineString, *MultiLineString,
// *Polygon, *MultiPolygon or *GeometryCollection.
type Geometry interface {
	Type() GeometryType
	GeoJSONType() string
	isGeometry()
}

// Position is a longitude, latitude and optional altitude.
type Position []float64

type Point struct {
	Coordinates Position          `json:"coordinates"`
	Layer       *VerticalLayer    `json:"layer"`
	Extent      *HorizontalExtent `json:"extent,omitempty"`
	BBox        []float64         `json:"bbox,omitzero"`
}

type MultiPoint struct {
	Coordinates []Position     `json:"coordinates"`
	Layer       *VerticalLayer `json:"layer"`
	BBox        []float64      `json:"bbox,omitzero"`
}

type LineString struct {
	Coordinates []Position     `json:"coordinates"`
	Layer       *VerticalLayer `json:"layer"`
	BBox        []float64      `json:"bbox,omitzero"`
}

type MultiLineString struct {
	Coordinates [][]Position   `json:"coordinates"`
	Layer       *VerticalLayer `json:"layer"`
	BBox        []float64      `json:"bbox,omitzero"`
}

type Polygon struct {
	Coordinates [][]Position   `json:"coordinates"`
	Layer       *VerticalLayer `json:"layer"`
	BBox        []float64      `json:"bbox,omitzero"`
}

type MultiPolygon struct {
	Coordinates [][][]Position `json:"coordinates"`
	Layer       *VerticalLayer `json:"layer"`
	BBox        []float64      `json:"bbox,omitzero"`
}

// GeometryCollection groups geometries of any type, collections included. Its
// own layer is optional and does not apply to the children.
type GeometryCollection struct {
	Geometries []Geometry     `json:"geometries"`
	Layer      *VerticalLayer `json:"layer,omitempty"`
	BBox       []float64      `json:"bbox,omitzero"`
}

func (*Point) Type() GeometryType              { return GeometryTypePoint }
func (*MultiPoint) Type() GeometryType         { return GeometryTypeMultiPoint }
func (*LineString) Type() GeometryType         { return GeometryTypeLineString }
func (*MultiLineString) Type() GeometryType    { return GeometryTypeMultiLineString }
func (*Polygon) Type() GeometryType            { return GeometryTypePolygon }
func (*MultiPolygon) Type() GeometryType       { return GeometryTypeMultiPolygon }
func (*GeometryCollection) Type() GeometryType { return GeometryTypeGeometryCollection }

func (g *Point) GeoJSONType() string              { return string(g.Type()) }
func (g *MultiPoint) GeoJSONType() string         { return string(g.Type()) }
func (g *LineString) GeoJSONType() string         { return string(g.Type()) }
func (g *MultiLineString) GeoJSONType() string    { return string(g.Type()) }
func (g *Polygon) GeoJSONType() string            { return string(g.Type()) }
func (g *MultiPolygon) GeoJSONType() string       { return string(g.Type()) }
func (g *GeometryCollection) GeoJSONType() string { return string(g.Type()) }

func (*Point) isGeometry()              {}
func (*MultiPoint) isGeometry()         {}
func (*LineString) isGeometry()         {}
func (*MultiLineString) isGeometry()    {}
func (*Polygon) isGeometry()            {}
func (*MultiPolygon) isGeometry()       {}
func (*GeometryCollection) isGeometry() {}

// withType prepends the GeoJSON type member to the encoding of v.
func withType(t string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(head)+10)
	out = append(out, `{"type":`...)
	out = append(out, head...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}

func (g *Point) MarshalJSON() ([]byte, error) {
	type alias Point
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *MultiPoint) MarshalJSON() ([]byte, error) {
	type alias MultiPoint
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *LineString) MarshalJSON() ([]byte, error) {
	type alias LineString
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *MultiLineString) MarshalJSON() ([]byte, error) {
	type alias MultiLineString
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *Polygon) MarshalJSON() ([]byte, error) {
	type alias Polygon
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *MultiPolygon) MarshalJSON() ([]byte, error) {
	type alias MultiPolygon
	return withType(g.GeoJSONType(), (*alias)(g))
}

func (g *GeometryCollection) MarshalJSON() ([]byte, error) {
	type alias GeometryCollection
	return withType(g.GeoJSONType(), (*alias)(g))
}

func validGeometryTags() []string {
	tags := make([]string, len(GeometryTypes))
	for i, t := range GeometryTypes {
		tags[i] = string(t)
	}
	return tags
}

// geometry dispatches on the type member. Unknown tags are rejected before
// any other member is looked at.
func (d *decoder) geometry(p Path, v interface{}) (Geometry, bool) {
	o := d.object(p, v)
	if o == nil {
		return nil, false
	}
	tv, tp, ok := o.required("type")
	if !ok {
		return nil, false
	}
	tag, ok := d.str(tp, tv)
	if !ok {
		return nil, false
	}

	mark := d.mark()
	var g Geometry
	switch t := GeometryType(tag); t {
	case GeometryTypePoint:
		pt := &Point{}
		if c, cp, ok := d.coordinates(o, t); ok {
			pt.Coordinates, _ = d.position(cp, c)
		}
		pt.Layer = d.layerOf(o)
		if ev, ep, ok := o.optional("extent"); ok {
			pt.Extent = d.horizontalExtent(ep, ev)
		}
		pt.BBox = d.bbox(o)
		g = pt
	case GeometryTypeMultiPoint:
		mp := &MultiPoint{}
		if c, cp, ok := d.coordinates(o, t); ok {
			mp.Coordinates, _ = decodeList(d, cp, c, 0, 0, false, d.position)
		}
		mp.Layer = d.layerOf(o)
		mp.BBox = d.bbox(o)
		g = mp
	case GeometryTypeLineString:
		ls := &LineString{}
		if c, cp, ok := d.coordinates(o, t); ok {
			ls.Coordinates, _ = d.lineString(cp, c)
		}
		ls.Layer = d.layerOf(o)
		ls.BBox = d.bbox(o)
		g = ls
	case GeometryTypeMultiLineString:
		ml := &MultiLineString{}
		if c, cp, ok := d.coordinates(o, t); ok {
			ml.Coordinates, _ = decodeList(d, cp, c, 0, 0, false, d.lineString)
		}
		ml.Layer = d.layerOf(o)
		ml.BBox = d.bbox(o)
		g = ml
	case GeometryTypePolygon:
		pg := &Polygon{}
		if c, cp, ok := d.coordinates(o, t); ok {
			pg.Coordinates, _ = d.polygon(cp, c)
		}
		pg.Layer = d.layerOf(o)
		pg.BBox = d.bbox(o)
		g = pg
	case GeometryTypeMultiPolygon:
		mp := &MultiPolygon{}
		if c, cp, ok := d.coordinates(o, t); ok {
			mp.Coordinates, _ = decodeList(d, cp, c, 0, 0, false, d.polygon)
		}
		mp.Layer = d.layerOf(o)
		mp.BBox = d.bbox(o)
		g = mp
	case GeometryTypeGeometryCollection:
		gc := &GeometryCollection{}
		if gv, gp, ok := o.required("geometries"); ok {
			gc.Geometries, _ = decodeList(d, gp, gv, 0, 0, false, d.geometry)
		}
		if lv, lp, ok := o.optional("layer"); ok {
			gc.Layer = d.verticalLayer(lp, lv)
		}
		gc.BBox = d.bbox(o)
		g = gc
	default:
		cause := &UnknownVariantError{Tag: tag, Valid: validGeometryTags()}
		d.fail(tp, KindUnknownVariant, cause, "%v", cause)
		return nil, false
	}
	o.close()
	if !d.okSince(mark) {
		return nil, false
	}
	return g, true
}

// coordinates returns the coordinates member once its nesting depth matches
// the geometry type.
func (d *decoder) coordinates(o *object, t GeometryType) (interface{}, Path, bool) {
	v, p, ok := o.required("coordinates")
	if !ok {
		return nil, p, false
	}
	expected := coordinateDepths[t]
	if actual := listDepth(v); actual != expected {
		cause := &DepthMismatchError{
			Geometry:   t,
			Expected:   expected,
			Actual:     actual,
			Candidates: typesWithDepth(actual),
		}
		d.fail(p, KindCoordinateDepthMismatch, cause, "%v", cause)
		return nil, p, false
	}
	return v, p, true
}

// layerOf decodes the vertical layer every non-collection geometry carries.
func (d *decoder) layerOf(o *object) *VerticalLayer {
	v, p, ok := o.required("layer")
	if !ok {
		return nil
	}
	return d.verticalLayer(p, v)
}

func (d *decoder) position(p Path, v interface{}) (Position, bool) {
	l, ok := v.([]interface{})
	if !ok {
		d.fail(p, KindTypeMismatch, nil, "expected a position array, got %s", jsonType(v))
		return nil, false
	}
	if len(l) < 2 || len(l) > 3 {
		d.fail(p, KindConstraintViolation, nil, "a position should have 2 or 3 numbers, got %d", len(l))
		return nil, false
	}
	pos := make(Position, len(l))
	for i, n := range l {
		f, ok := d.number(p.Index(i), n)
		if !ok {
			return nil, false
		}
		pos[i] = f
	}
	return pos, true
}

func (d *decoder) positions(p Path, v interface{}) ([]Position, bool) {
	l, ok := v.([]interface{})
	if !ok {
		d.fail(p, KindTypeMismatch, nil, "expected an array of positions, got %s", jsonType(v))
		return nil, false
	}
	mark := d.mark()
	out := make([]Position, len(l))
	for i, item := range l {
		out[i], _ = d.position(p.Index(i), item)
	}
	return out, d.okSince(mark)
}

func (d *decoder) lineString(p Path, v interface{}) ([]Position, bool) {
	line, ok := d.positions(p, v)
	if !ok {
		return nil, false
	}
	if len(line) < 2 {
		d.fail(p, KindConstraintViolation, nil, "a line string should have at least 2 positions, got %d", len(line))
		return nil, false
	}
	return line, true
}

func (d *decoder) ring(p Path, v interface{}) ([]Position, bool) {
	ring, ok := d.positions(p, v)
	if !ok {
		return nil, false
	}
	if len(ring) < 4 {
		d.fail(p, KindConstraintViolation, nil, "a linear ring should have at least 4 positions, got %d", len(ring))
		return nil, false
	}
	if !samePosition(ring[0], ring[len(ring)-1]) {
		d.fail(p, KindConstraintViolation, nil, "a linear ring should end where it starts")
		return nil, false
	}
	return ring, true
}

func (d *decoder) polygon(p Path, v interface{}) ([][]Position, bool) {
	l, ok := v.([]interface{})
	if !ok {
		d.fail(p, KindTypeMismatch, nil, "expected an array of linear rings, got %s", jsonType(v))
		return nil, false
	}
	mark := d.mark()
	out := make([][]Position, len(l))
	for i, item := range l {
		out[i], _ = d.ring(p.Index(i), item)
	}
	return out, d.okSince(mark)
}

func samePosition(a, b Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
