package zone

import (
	"regexp"

	"github.com/brunoga/deep"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,7}$`)
	countryPattern    = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

const (
	restrictionConditionsMax = 10000
	regionMax                = 65535
	reasonsMax               = 9
)

// UASZone is a volume of airspace, above land or territorial waters, within
// which a particular restriction or condition for UAS flights applies.
type UASZone struct {
	Identifier            string                 `json:"identifier"`
	Country               string                 `json:"country"`
	Name                  []TextShort            `json:"name,omitzero"`
	Type                  ZoneType               `json:"type"`
	Variant               ZoneVariant            `json:"variant"`
	RestrictionConditions *string                `json:"restrictionConditions,omitempty"`
	Region                *int                   `json:"region,omitempty"`
	Reason                []ZoneReason           `json:"reason,omitzero"`
	OtherReasonInfo       []TextShort            `json:"otherReasonInfo,omitzero"`
	RegulationExemption   YesNo                  `json:"regulationExemption,omitempty"`
	Message               []TextLong             `json:"message,omitzero"`
	ExtendedProperties    map[string]interface{} `json:"extendedProperties,omitzero"`
	LimitedApplicability  []TimePeriod           `json:"limitedApplicability,omitzero"`
	ZoneAuthority         []Authority            `json:"zoneAuthority"`
	DataSource            *Metadata              `json:"dataSource,omitempty"`
}

func (d *decoder) zoneReason(p Path, v interface{}) (ZoneReason, bool) {
	s, ok := d.code(p, v, zoneReasons)
	return ZoneReason(s), ok
}

func (d *decoder) uasZone(p Path, v interface{}) (*UASZone, bool) {
	o := d.object(p, v)
	if o == nil {
		return nil, false
	}
	mark := d.mark()
	z := &UASZone{}
	if v, p, ok := o.required("identifier"); ok {
		z.Identifier, _ = d.bounded(p, v, 1, 7, identifierPattern)
	}
	if v, p, ok := o.required("country"); ok {
		z.Country, _ = d.bounded(p, v, 3, 3, countryPattern)
	}
	if v, p, ok := o.optional("name"); ok {
		z.Name = d.textShortList(p, v)
	}
	if v, p, ok := o.required("type"); ok {
		s, _ := d.code(p, v, zoneTypes)
		z.Type = ZoneType(s)
	}
	if v, p, ok := o.required("variant"); ok {
		s, _ := d.code(p, v, zoneVariants)
		z.Variant = ZoneVariant(s)
	}
	if v, p, ok := o.optional("restrictionConditions"); ok {
		if s, ok := d.bounded(p, v, 0, restrictionConditionsMax, nil); ok {
			z.RestrictionConditions = &s
		}
	}
	if v, p, ok := o.optional("region"); ok {
		if n, ok := d.integer(p, v, 0, regionMax); ok {
			z.Region = &n
		}
	}
	z.Reason = d.reasons(o)
	if v, p, ok := o.optional("otherReasonInfo"); ok {
		z.OtherReasonInfo = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("regulationExemption"); ok {
		s, _ := d.code(p, v, yesNo)
		z.RegulationExemption = YesNo(s)
	}
	if v, p, ok := o.optional("message"); ok {
		z.Message, _ = decodeList(d, p, v, 1, 0, true, d.textLong)
	}
	if v, p, ok := o.optional("extendedProperties"); ok {
		z.ExtendedProperties = d.extendedProperties(p, v)
	}
	if v, p, ok := o.optional("limitedApplicability"); ok {
		z.LimitedApplicability, _ = decodeList(d, p, v, 1, 0, true, d.timePeriod)
	}
	if v, p, ok := o.required("zoneAuthority"); ok {
		z.ZoneAuthority, _ = decodeList(d, p, v, 1, 0, true, d.authority)
	}
	if v, p, ok := o.optional("dataSource"); ok {
		z.DataSource = d.metadata(p, v)
	}
	o.close()
	if !d.okSince(mark) {
		return nil, false
	}
	return z, true
}

// reasons reads the reason list, also under its legacy name when aliases are
// accepted.
func (d *decoder) reasons(o *object) []ZoneReason {
	v, p, ok := o.optional("reason")
	if d.opts.AcceptAliases {
		if av, ap, aliased := o.optional("reasons"); aliased {
			if ok {
				d.exclusive(o.path, "reason", "reasons")
				return nil
			}
			v, p, ok = av, ap, true
		}
	}
	if !ok {
		return nil
	}
	l, _ := decodeList(d, p, v, 0, reasonsMax, true, d.zoneReason)
	return l
}

// extendedProperties copies the open bag so that the decoded zone never shares
// maps with the input. A bare value is kept under the "prop" key.
func (d *decoder) extendedProperties(p Path, v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		m = map[string]interface{}{"prop": v}
	}
	c, err := deep.Copy(m)
	if err != nil {
		d.fail(p, KindTypeMismatch, err, "extended properties cannot be copied: %v", err)
		return nil
	}
	return c
}
