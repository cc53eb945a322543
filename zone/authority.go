package zone

import (
	"net/mail"
	"net/url"
	"regexp"
)

// Authority is a contact in charge of authorizing, being notified of or
// informing about UAS operations in a zone.
type Authority struct {
	Purpose        AuthorityRole `json:"purpose"`
	IntervalBefore *Duration     `json:"intervalBefore,omitempty"`
	Name           []TextShort   `json:"name,omitzero"`
	Service        []TextShort   `json:"service,omitzero"`
	ContactName    []TextShort   `json:"contactName,omitzero"`
	SiteURL        *string       `json:"siteURL,omitempty"`
	Email          *string       `json:"email,omitempty"`
	Phone          *string       `json:"phone,omitempty"`
}

// Metadata gives traceability for the data of a single zone.
type Metadata struct {
	CreationDateTime *DateTime `json:"creationDateTime,omitempty"`
	UpdateDateTime   *DateTime `json:"updateDateTime,omitempty"`
	Originator       *string   `json:"originator,omitempty"`
}

// DatasetMetadata qualifies and constrains the usage of a whole data set.
type DatasetMetadata struct {
	Provider            []TextShort `json:"provider,omitzero"`
	Issued              *DateTime   `json:"issued,omitempty"`
	ValidFrom           *DateTime   `json:"validFrom,omitempty"`
	ValidTo             *DateTime   `json:"validTo,omitempty"`
	Description         []TextShort `json:"description,omitzero"`
	OtherGeoid          *string     `json:"otherGeoid,omitempty"`
	TechnicalLimitation []TextShort `json:"technicalLimitation,omitzero"`
}

var urnPattern = regexp.MustCompile(`(?i)^urn:.+:.*$`)

func (d *decoder) authority(p Path, v interface{}) (Authority, bool) {
	o := d.object(p, v)
	if o == nil {
		return Authority{}, false
	}
	mark := d.mark()
	a := Authority{}
	if v, p, ok := o.required("purpose"); ok {
		s, _ := d.code(p, v, authorityRoles)
		a.Purpose = AuthorityRole(s)
	}
	if v, p, ok := o.optional("intervalBefore"); ok {
		a.IntervalBefore = d.duration(p, v)
	}
	if v, p, ok := o.optional("name"); ok {
		a.Name = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("service"); ok {
		a.Service = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("contactName"); ok {
		a.ContactName = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("siteURL"); ok {
		a.SiteURL = d.contact(p, v, checkURL)
	}
	if v, p, ok := o.optional("email"); ok {
		a.Email = d.contact(p, v, checkEmail)
	}
	if v, p, ok := o.optional("phone"); ok {
		a.Phone = d.contact(p, v, nil)
	}
	o.close()
	return a, d.okSince(mark)
}

func checkURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

func checkEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// contact decodes the short contact strings of an authority. Coercive mode
// also takes them in the TextShort object form.
func (d *decoder) contact(p Path, v interface{}, check func(string) bool) *string {
	var s string
	if _, isObject := v.(map[string]interface{}); isObject && d.opts.LaxScalars {
		text, ok := d.textShort(p, v)
		if !ok {
			return nil
		}
		s = text.Text
	} else {
		var ok bool
		if s, ok = d.bounded(p, v, 0, textShortMax, nil); !ok {
			return nil
		}
	}
	if check != nil && !check(s) {
		d.fail(p, KindConstraintViolation, nil, "invalid value %q", s)
		return nil
	}
	return &s
}

func (d *decoder) metadata(p Path, v interface{}) *Metadata {
	o := d.object(p, v)
	if o == nil {
		return nil
	}
	mark := d.mark()
	m := &Metadata{}
	if v, p, ok := o.optional("creationDateTime"); ok {
		m.CreationDateTime = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("updateDateTime"); ok {
		m.UpdateDateTime = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("originator"); ok {
		if s, ok := d.str(p, v); ok {
			m.Originator = &s
		}
	}
	o.close()
	if !d.okSince(mark) {
		return nil
	}
	return m
}

func (d *decoder) datasetMetadata(p Path, v interface{}) (DatasetMetadata, bool) {
	o := d.object(p, v)
	if o == nil {
		return DatasetMetadata{}, false
	}
	mark := d.mark()
	m := DatasetMetadata{}
	if v, p, ok := o.optional("provider"); ok {
		m.Provider = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("issued"); ok {
		m.Issued = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("validFrom"); ok {
		m.ValidFrom = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("validTo"); ok {
		m.ValidTo = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("description"); ok {
		m.Description = d.textShortList(p, v)
	}
	if v, p, ok := o.optional("otherGeoid"); ok {
		if s, ok := d.bounded(p, v, 0, 0, urnPattern); ok {
			m.OtherGeoid = &s
		}
	}
	if v, p, ok := o.optional("technicalLimitation"); ok {
		m.TechnicalLimitation = d.textShortList(p, v)
	}
	o.close()
	return m, d.okSince(mark)
}
