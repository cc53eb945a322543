package zone_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/JiscSD/ed318-validator/internal/testutil"
	"github.com/JiscSD/ed318-validator/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoneDoc returns the properties of a minimal valid zone with the given
// members added or replaced.
func zoneDoc(t *testing.T, members map[string]interface{}) map[string]interface{} {
	t.Helper()

	doc := testutil.MustDecode(t, `{
		"identifier": "ABC1234",
		"country": "FRA",
		"type": "PROHIBITED",
		"variant": "COMMON",
		"zoneAuthority": [{"purpose": "INFORMATION"}]
	}`).(map[string]interface{})
	for k, v := range members {
		doc[k] = v
	}
	return doc
}

func decodeJSON(t *testing.T, blob string) interface{} {
	return testutil.MustDecode(t, blob)
}

func TestUASZoneMinimal(t *testing.T) {
	t.Parallel()

	z, err := zone.DecodeUASZone(zoneDoc(t, nil), zone.Strict())
	require.NoError(t, err)
	assert.Equal(t, "ABC1234", z.Identifier)
	assert.Equal(t, zone.ZoneTypeProhibited, z.Type)
	assert.Equal(t, zone.ZoneVariantCommon, z.Variant)
	assert.Equal(t, []zone.Authority{{Purpose: zone.AuthorityRoleInformation}}, z.ZoneAuthority)
	assert.Nil(t, z.Region)
	assert.Nil(t, z.Reason)
}

func TestUASZoneCaseFolding(t *testing.T) {
	t.Parallel()

	doc := zoneDoc(t, map[string]interface{}{"type": "uspACe"})

	_, err := zone.DecodeUASZone(doc, zone.Strict())
	require.Error(t, err)
	issue := err.(*zone.ValidationError).Find("type")
	require.NotNil(t, issue)
	assert.Equal(t, zone.KindInvalidValue, issue.Kind)
	assert.Contains(t, issue.Message, "'USPACE'")

	z, err := zone.DecodeUASZone(doc, zone.Coercive())
	require.NoError(t, err)
	assert.Equal(t, zone.ZoneTypeUSpace, z.Type)
}

func TestUASZoneLegacySpelling(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		zoneType    string
		purpose     string
		wantType    zone.ZoneType
		wantPurpose zone.AuthorityRole
	}{
		"Uppercase": {
			zoneType:    "REQ_AUTHORISATION",
			purpose:     "AUTHORISATION",
			wantType:    zone.ZoneTypeReqAuthorization,
			wantPurpose: zone.AuthorityRoleAuthorization,
		},
		"Lowercase": {
			zoneType:    "req_authorisation",
			purpose:     "authorisation",
			wantType:    zone.ZoneTypeReqAuthorization,
			wantPurpose: zone.AuthorityRoleAuthorization,
		},
		"Already normalized": {
			zoneType:    "REQ_AUTHORIZATION",
			purpose:     "NOTIFICATION",
			wantType:    zone.ZoneTypeReqAuthorization,
			wantPurpose: zone.AuthorityRoleNotification,
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := zoneDoc(t, map[string]interface{}{
				"type":          tc.zoneType,
				"zoneAuthority": []interface{}{map[string]interface{}{"purpose": tc.purpose}},
			})
			z, err := zone.DecodeUASZone(doc, zone.Coercive())
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, z.Type)
			assert.Equal(t, tc.wantPurpose, z.ZoneAuthority[0].Purpose)
		})
	}

	_, err := zone.DecodeUASZone(zoneDoc(t, map[string]interface{}{"type": "REQ_AUTHORISATION"}), zone.Strict())
	require.Error(t, err)
	assert.Equal(t, zone.KindInvalidValue, err.(*zone.ValidationError).Find("type").Kind)
}

func TestUASZoneScalarCoercion(t *testing.T) {
	t.Parallel()

	doc := zoneDoc(t, map[string]interface{}{
		"reason":              "AIR_TRAFFIC",
		"regulationExemption": "",
		"name":                "Zone name",
	})

	z, err := zone.DecodeUASZone(doc, zone.Coercive())
	require.NoError(t, err)
	assert.Equal(t, []zone.ZoneReason{zone.ZoneReasonAirTraffic}, z.Reason)
	assert.Equal(t, zone.YesNo(""), z.RegulationExemption)
	assert.Equal(t, []zone.TextShort{{Text: "Zone name"}}, z.Name)

	_, err = zone.DecodeUASZone(doc, zone.Strict())
	require.Error(t, err)
	verr := err.(*zone.ValidationError)
	assert.Equal(t, zone.KindTypeMismatch, verr.Find("reason").Kind)
	assert.Equal(t, zone.KindInvalidValue, verr.Find("regulationExemption").Kind)
	assert.Equal(t, zone.KindTypeMismatch, verr.Find("name").Kind)
}

func TestUASZoneReasonAlias(t *testing.T) {
	t.Parallel()

	z, err := zone.DecodeUASZone(zoneDoc(t, map[string]interface{}{"reasons": []interface{}{"NOISE"}}), zone.Coercive())
	require.NoError(t, err)
	assert.Equal(t, []zone.ZoneReason{zone.ZoneReasonNoise}, z.Reason)

	_, err = zone.DecodeUASZone(zoneDoc(t, map[string]interface{}{"reasons": []interface{}{"NOISE"}}), zone.Strict())
	require.Error(t, err)
	assert.Equal(t, zone.KindUnexpectedField, err.(*zone.ValidationError).Find("reasons").Kind)

	_, err = zone.DecodeUASZone(zoneDoc(t, map[string]interface{}{
		"reason":  []interface{}{"NOISE"},
		"reasons": []interface{}{"NATURE"},
	}), zone.Coercive())
	require.Error(t, err)
	assert.True(t, err.(*zone.ValidationError).Has(zone.KindMutuallyExclusiveFields))
}

func TestUASZoneConstraints(t *testing.T) {
	t.Parallel()

	nineReasons := []interface{}{"AIR_TRAFFIC", "SENSITIVE", "PRIVACY", "POPULATION", "NATURE", "NOISE", "EMERGENCY", "DAR", "OTHER"}

	tests := map[string]struct {
		members  map[string]interface{}
		wantPath string
		wantKind zone.Kind
	}{
		"Identifier too long": {
			members:  map[string]interface{}{"identifier": "ABCD1234"},
			wantPath: "identifier",
			wantKind: zone.KindConstraintViolation,
		},
		"Identifier with spaces": {
			members:  map[string]interface{}{"identifier": "AB 12"},
			wantPath: "identifier",
			wantKind: zone.KindConstraintViolation,
		},
		"Empty identifier": {
			members:  map[string]interface{}{"identifier": ""},
			wantPath: "identifier",
			wantKind: zone.KindConstraintViolation,
		},
		"Two-letter country": {
			members:  map[string]interface{}{"country": "FR"},
			wantPath: "country",
			wantKind: zone.KindConstraintViolation,
		},
		"Numeric country": {
			members:  map[string]interface{}{"country": "250"},
			wantPath: "country",
			wantKind: zone.KindConstraintViolation,
		},
		"Unknown variant": {
			members:  map[string]interface{}{"variant": "SPECIAL"},
			wantPath: "variant",
			wantKind: zone.KindInvalidValue,
		},
		"Region out of range": {
			members:  map[string]interface{}{"region": 70000.0},
			wantPath: "region",
			wantKind: zone.KindConstraintViolation,
		},
		"Fractional region": {
			members:  map[string]interface{}{"region": 1.5},
			wantPath: "region",
			wantKind: zone.KindTypeMismatch,
		},
		"Ten reasons": {
			members:  map[string]interface{}{"reason": append(nineReasons, "OTHER")},
			wantPath: "reason",
			wantKind: zone.KindConstraintViolation,
		},
		"Unknown reason": {
			members:  map[string]interface{}{"reason": []interface{}{"AIR_TRAFFIC", "WEATHER"}},
			wantPath: "reason[1]",
			wantKind: zone.KindInvalidValue,
		},
		"Missing authority": {
			members:  map[string]interface{}{"zoneAuthority": nil},
			wantPath: "zoneAuthority",
			wantKind: zone.KindMissingRequiredField,
		},
		"Empty authority list": {
			members:  map[string]interface{}{"zoneAuthority": []interface{}{}},
			wantPath: "zoneAuthority",
			wantKind: zone.KindConstraintViolation,
		},
		"Empty name list": {
			members:  map[string]interface{}{"name": []interface{}{}},
			wantPath: "name",
			wantKind: zone.KindConstraintViolation,
		},
		"Name too long": {
			members:  map[string]interface{}{"name": []interface{}{map[string]interface{}{"text": string(make([]byte, 201))}}},
			wantPath: "name[0].text",
			wantKind: zone.KindConstraintViolation,
		},
		"Malformed language": {
			members:  map[string]interface{}{"name": []interface{}{map[string]interface{}{"text": "x", "lang": "english"}}},
			wantPath: "name[0].lang",
			wantKind: zone.KindConstraintViolation,
		},
		"Unknown field": {
			members:  map[string]interface{}{"altitude": 12.0},
			wantPath: "altitude",
			wantKind: zone.KindUnexpectedField,
		},
		"Type of wrong JSON type": {
			members:  map[string]interface{}{"type": 3.0},
			wantPath: "type",
			wantKind: zone.KindTypeMismatch,
		},
		"Unknown authority purpose": {
			members:  map[string]interface{}{"zoneAuthority": []interface{}{map[string]interface{}{"purpose": "APPROVAL"}}},
			wantPath: "zoneAuthority[0].purpose",
			wantKind: zone.KindInvalidValue,
		},
		"Malformed email": {
			members:  map[string]interface{}{"zoneAuthority": []interface{}{map[string]interface{}{"purpose": "INFORMATION", "email": "nobody"}}},
			wantPath: "zoneAuthority[0].email",
			wantKind: zone.KindConstraintViolation,
		},
		"Relative site URL": {
			members:  map[string]interface{}{"zoneAuthority": []interface{}{map[string]interface{}{"purpose": "INFORMATION", "siteURL": "/contact"}}},
			wantPath: "zoneAuthority[0].siteURL",
			wantKind: zone.KindConstraintViolation,
		},
		"Malformed notice period": {
			members:  map[string]interface{}{"zoneAuthority": []interface{}{map[string]interface{}{"purpose": "NOTIFICATION", "intervalBefore": "2 days"}}},
			wantPath: "zoneAuthority[0].intervalBefore",
			wantKind: zone.KindConstraintViolation,
		},
		"Malformed data source date": {
			members:  map[string]interface{}{"dataSource": map[string]interface{}{"creationDateTime": "yesterday"}},
			wantPath: "dataSource.creationDateTime",
			wantKind: zone.KindConstraintViolation,
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := zone.DecodeUASZone(zoneDoc(t, tc.members), zone.Strict())
			require.Error(t, err)
			verr, ok := err.(*zone.ValidationError)
			require.True(t, ok)
			issue := verr.Find(tc.wantPath)
			require.NotNil(t, issue, "no issue at %s in %v", tc.wantPath, err)
			assert.Equal(t, tc.wantKind, issue.Kind, issue.Message)
		})
	}
}

func TestUASZoneReportsEveryIssue(t *testing.T) {
	t.Parallel()

	doc := decodeJSON(t, `{"identifier": "TOO-LONG-ID", "country": "FRANCE", "type": "NONE", "variant": "COMMON"}`)

	_, err := zone.DecodeUASZone(doc, zone.Strict())
	require.Error(t, err)
	verr := err.(*zone.ValidationError)
	assert.Len(t, verr.Errors, 4)
	for _, path := range []string{"identifier", "country", "type", "zoneAuthority"} {
		assert.NotNil(t, verr.Find(path), path)
	}
}

func TestUASZoneUnknownFieldsAreWarnings(t *testing.T) {
	t.Parallel()

	v, err := zone.NewValidator("coercive")
	require.NoError(t, err)

	feature := featureDoc(t, zoneDoc(t, map[string]interface{}{"altitude": 12.0}))
	res, err := v.ValidateValue(ctxBackground, feature)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "properties.altitude", res.Warnings[0].Path.String())
	assert.Equal(t, zone.KindUnexpectedField, res.Warnings[0].Kind)

	blob, err := json.Marshal(res.Object)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "altitude")
}

func TestUASZoneExtendedProperties(t *testing.T) {
	t.Parallel()

	nested := map[string]interface{}{"operator": map[string]interface{}{"code": "ENAIRE"}}
	tests := map[string]struct {
		value interface{}
		want  map[string]interface{}
	}{
		"Object is kept": {
			value: nested,
			want:  map[string]interface{}{"operator": map[string]interface{}{"code": "ENAIRE"}},
		},
		"String is wrapped": {
			value: "ENAIRE",
			want:  map[string]interface{}{"prop": "ENAIRE"},
		},
		"Number is wrapped": {
			value: 42.0,
			want:  map[string]interface{}{"prop": 42.0},
		},
		"List is wrapped": {
			value: []interface{}{"a", "b"},
			want:  map[string]interface{}{"prop": []interface{}{"a", "b"}},
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, opts := range []zone.Options{zone.Strict(), zone.Coercive()} {
				z, err := zone.DecodeUASZone(zoneDoc(t, map[string]interface{}{"extendedProperties": tc.value}), opts)
				require.NoError(t, err)
				assert.Equal(t, tc.want, z.ExtendedProperties)
			}
		})
	}
}

func TestUASZoneExtendedPropertiesAreCopied(t *testing.T) {
	t.Parallel()

	inner := map[string]interface{}{"code": "ENAIRE"}
	doc := zoneDoc(t, map[string]interface{}{"extendedProperties": map[string]interface{}{"operator": inner}})

	z, err := zone.DecodeUASZone(doc, zone.Strict())
	require.NoError(t, err)

	inner["code"] = "changed"
	assert.Equal(t, "ENAIRE", z.ExtendedProperties["operator"].(map[string]interface{})["code"])
}

func TestAuthority(t *testing.T) {
	t.Parallel()

	doc := decodeJSON(t, `{
		"purpose": "NOTIFICATION",
		"intervalBefore": "P1DT12H",
		"name": [{"text": "Tower", "lang": "en-GB"}],
		"service": [{"text": "Operations"}],
		"siteURL": "https://example.org/uas",
		"email": "ops@example.org",
		"phone": "+33 1 23 45 67 89"
	}`)

	a, err := zone.DecodeAuthority(doc, zone.Strict())
	require.NoError(t, err)
	require.NotNil(t, a.IntervalBefore)
	assert.Equal(t, 36*time.Hour, a.IntervalBefore.Duration)
	assert.Equal(t, "https://example.org/uas", *a.SiteURL)
	assert.Equal(t, "ops@example.org", *a.Email)

	blob, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"intervalBefore":"P1DT12H"`)
}

func TestAuthorityCoercive(t *testing.T) {
	t.Parallel()

	doc := decodeJSON(t, `{
		"purpose": "authorisation",
		"intervalBefore": "1 day, 2:00:00",
		"name": "Tower",
		"email": {"text": "ops@example.org", "lang": "en-GB"},
		"phone": ""
	}`)

	_, err := zone.DecodeAuthority(doc, zone.Strict())
	require.Error(t, err)

	a, err := zone.DecodeAuthority(doc, zone.Coercive())
	require.NoError(t, err)
	assert.Equal(t, zone.AuthorityRoleAuthorization, a.Purpose)
	assert.Equal(t, 26*time.Hour, a.IntervalBefore.Duration)
	assert.Equal(t, []zone.TextShort{{Text: "Tower"}}, a.Name)
	assert.Equal(t, "ops@example.org", *a.Email)
	assert.Nil(t, a.Phone)
}

func TestTextVariants(t *testing.T) {
	t.Parallel()

	short, err := zone.DecodeTextShort("Bare text", zone.Strict())
	require.NoError(t, err)
	assert.Equal(t, zone.TextShort{Text: "Bare text"}, short)

	short, err = zone.DecodeTextShort(decodeJSON(t, `{"text": "Bonjour", "lang": "fr-FR"}`), zone.Strict())
	require.NoError(t, err)
	assert.Equal(t, zone.TextShort{Text: "Bonjour", Lang: "fr-FR"}, short)

	_, err = zone.DecodeTextShort(decodeJSON(t, `{"lang": "fr-FR"}`), zone.Strict())
	require.Error(t, err)
	assert.Equal(t, zone.KindMissingRequiredField, err.(*zone.ValidationError).Find("text").Kind)

	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'a'
	}
	_, err = zone.DecodeTextShort(string(long), zone.Strict())
	require.Error(t, err)
	_, err = zone.DecodeTextLong(string(long), zone.Strict())
	require.NoError(t, err)
	_, err = zone.DecodeTextLong(string(long)+"a", zone.Strict())
	require.Error(t, err)
}
