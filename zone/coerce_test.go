package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListDepth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, listDepth(17.0))
	assert.Equal(t, 1, listDepth([]interface{}{1.0}))
	assert.Equal(t, 2, listDepth([]interface{}{[]interface{}{1.0}}))
	assert.Equal(t, 2, listDepth([]interface{}{
		[]interface{}{1.0, 2.0},
		[]interface{}{3.0, 4.0},
	}))
	assert.Equal(t, 3, listDepth([]interface{}{[]interface{}{[]interface{}{1.0, 2.0, 3.0}}}))
}

func TestListDepthCornerCases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, listDepth("abc"))
	assert.Equal(t, 1, listDepth([]interface{}{"abc"}))
	assert.Equal(t, 0, listDepth(nil))
	assert.Equal(t, 1, listDepth([]interface{}{}))
	assert.Equal(t, 2, listDepth([]interface{}{[]interface{}{}}))

	// Only the first element is followed.
	assert.Equal(t, 1, listDepth([]interface{}{1.0, []interface{}{2.0}}))
}

func TestTransforms(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "USPACE", toUpper("uspACe"))
	assert.Equal(t, 12.0, toUpper(12.0))
	assert.Equal(t, "ft", toLower("FT"))
	assert.Equal(t, true, toLower(true))

	assert.Equal(t, []interface{}{"MON"}, toList("MON"))
	assert.Equal(t, []interface{}{"MON", "TUE"}, toList([]interface{}{"MON", "TUE"}))

	assert.Nil(t, emptyToNil(""))
	assert.Equal(t, " ", emptyToNil(" "))
	assert.Equal(t, 0.0, emptyToNil(0.0))

	assert.Equal(t, "REQ_AUTHORIZATION", translateAuthorisation("REQ_AUTHORISATION"))
	assert.Equal(t, "authorisation", translateAuthorisation("authorisation"))
	assert.Equal(t, 1.0, translateAuthorisation(1.0))
}

func TestPathString(t *testing.T) {
	t.Parallel()

	p := Path{}.Key("features").Index(3).Key("properties").Key("zoneAuthority").Index(0).Key("purpose")
	assert.Equal(t, "features[3].properties.zoneAuthority[0].purpose", p.String())
	assert.Equal(t, "[2]", Path{}.Index(2).String())
	assert.Equal(t, "", Path(nil).String())

	// Extending a path never changes the original.
	base := Path{"features"}
	a, b := base.Index(1), base.Index(2)
	assert.Equal(t, "features[1]", a.String())
	assert.Equal(t, "features[2]", b.String())
}
