package zone

// VerticalLayer gives a geometry its vertical extent. Upper and lower are not
// checked against each other unless Options.CheckLayerOrder is set.
type VerticalLayer struct {
	Upper          float64           `json:"upper"`
	UpperReference VerticalReference `json:"upperReference"`
	Lower          float64           `json:"lower"`
	LowerReference VerticalReference `json:"lowerReference"`
	UOM            UomDistance       `json:"uom"`
}

// HorizontalExtent turns a Point into a circle.
type HorizontalExtent struct {
	SubType string `json:"subType"`

	// Radius in meters along the WGS84 ellipsoid.
	Radius float64 `json:"radius"`
}

const extentCircle = "Circle"

func (d *decoder) verticalLayer(p Path, v interface{}) *VerticalLayer {
	o := d.object(p, v)
	if o == nil {
		return nil
	}
	mark := d.mark()
	l := &VerticalLayer{UOM: UomMeters}
	if v, p, ok := o.required("upper"); ok {
		l.Upper, _ = d.number(p, v)
	}
	if v, p, ok := o.required("upperReference"); ok {
		ref, _ := d.code(p, v, verticalReferences)
		l.UpperReference = VerticalReference(ref)
	}
	if v, p, ok := o.required("lower"); ok {
		l.Lower, _ = d.number(p, v)
	}
	if v, p, ok := o.required("lowerReference"); ok {
		ref, _ := d.code(p, v, verticalReferences)
		l.LowerReference = VerticalReference(ref)
	}
	if v, p, ok := o.optional("uom"); ok {
		uom, _ := d.code(p, v, uomDistances)
		l.UOM = UomDistance(uom)
	}
	o.close()
	if !d.okSince(mark) {
		return nil
	}
	if d.opts.CheckLayerOrder && l.UpperReference == l.LowerReference && l.Upper < l.Lower {
		d.fail(p, KindConstraintViolation, nil, "upper (%v) should not be below lower (%v)", l.Upper, l.Lower)
		return nil
	}
	return l
}

func (d *decoder) horizontalExtent(p Path, v interface{}) *HorizontalExtent {
	o := d.object(p, v)
	if o == nil {
		return nil
	}
	mark := d.mark()
	e := &HorizontalExtent{}
	if v, p, ok := o.required("subType"); ok {
		if s, ok := d.str(p, v); ok {
			if s != extentCircle {
				d.fail(p, KindInvalidValue, nil, "subType should be 'Circle', got %q", s)
			}
			e.SubType = s
		}
	}
	if v, p, ok := o.required("radius"); ok {
		e.Radius, _ = d.number(p, v)
	}
	o.close()
	if !d.okSince(mark) {
		return nil
	}
	return e
}
