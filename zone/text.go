package zone

import "regexp"

const (
	textShortMax = 200
	textLongMax  = 1000
)

var langPattern = regexp.MustCompile(`(?i)^[a-z]{2}-[A-Z]{2}$`)

// TextShort is a free text of at most 200 characters, optionally tagged with
// the language it is written in.
type TextShort struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// TextLong is a free text of at most 1000 characters, optionally tagged with
// the language it is written in.
type TextLong struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// freeText decodes both text variants. A bare string is shorthand for an
// object with no language.
func (d *decoder) freeText(p Path, v interface{}, max int) (text, lang string, ok bool) {
	if s, isString := v.(string); isString {
		text, ok = d.bounded(p, s, 0, max, nil)
		return text, "", ok
	}
	o := d.object(p, v)
	if o == nil {
		return "", "", false
	}
	mark := d.mark()
	if tv, tp, present := o.required("text"); present {
		text, _ = d.bounded(tp, tv, 0, max, nil)
	}
	if lv, lp, present := o.optional("lang"); present {
		lang, _ = d.bounded(lp, lv, 0, 5, langPattern)
	}
	o.close()
	return text, lang, d.okSince(mark)
}

func (d *decoder) textShort(p Path, v interface{}) (TextShort, bool) {
	text, lang, ok := d.freeText(p, v, textShortMax)
	return TextShort{Text: text, Lang: lang}, ok
}

func (d *decoder) textLong(p Path, v interface{}) (TextLong, bool) {
	text, lang, ok := d.freeText(p, v, textLongMax)
	return TextLong{Text: text, Lang: lang}, ok
}

// textShortList decodes the optional TextShort lists, which must not be empty.
func (d *decoder) textShortList(p Path, v interface{}) []TextShort {
	l, _ := decodeList(d, p, v, 1, 0, true, d.textShort)
	return l
}
