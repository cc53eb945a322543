package zone_test

import (
	"testing"

	"github.com/JiscSD/ed318-validator/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyPeriodMutualExclusion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc        string
		wantFields [2]string
	}{
		"Start time and event": {
			doc:        `{"day": ["MON"], "startTime": "08:00:00Z", "startEvent": "SR"}`,
			wantFields: [2]string{"startTime", "startEvent"},
		},
		"End time and event": {
			doc:        `{"day": ["MON"], "endTime": "20:00:00Z", "endEvent": "SS"}`,
			wantFields: [2]string{"endTime", "endEvent"},
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, opts := range []zone.Options{zone.Strict(), zone.Coercive()} {
				_, err := zone.DecodeDailyPeriod(decodeJSON(t, tc.doc), opts)
				require.Error(t, err)
				verr := err.(*zone.ValidationError)
				require.Len(t, verr.Errors, 1)
				assert.Equal(t, zone.KindMutuallyExclusiveFields, verr.Errors[0].Kind)
				assert.Equal(t, tc.wantFields[0]+" and "+tc.wantFields[1]+" cannot be present simultaneously", verr.Errors[0].Message)

				var cause *zone.ExclusiveFieldsError
				require.ErrorAs(t, err, &cause)
				assert.Equal(t, tc.wantFields, cause.Fields)
			}
		})
	}
}

func TestDailyPeriodOpenEnds(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Times":          `{"day": ["MON", "TUE"], "startTime": "08:00:00Z", "endTime": "20:00:00Z"}`,
		"Events":         `{"day": ["SAT"], "startEvent": "BMCT", "endEvent": "EECT"}`,
		"Time and event": `{"day": ["SUN"], "startTime": "08:00", "endEvent": "SS"}`,
		"Open start":     `{"day": ["ANY"], "endTime": "12:00:00+01:00"}`,
		"Open window":    `{"day": ["ANY"]}`,
	}
	for name, doc := range tests {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := zone.DecodeDailyPeriod(decodeJSON(t, doc), zone.Strict())
			require.NoError(t, err)
		})
	}
}

func TestDailyPeriodFieldIssuesComeFirst(t *testing.T) {
	t.Parallel()

	_, err := zone.DecodeDailyPeriod(decodeJSON(t, `{"day": ["MON"], "startTime": "8 o'clock", "startEvent": "SR"}`), zone.Strict())
	require.Error(t, err)
	verr := err.(*zone.ValidationError)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "startTime", verr.Errors[0].Path.String())
	assert.Equal(t, zone.KindConstraintViolation, verr.Errors[0].Kind)
}

func TestDailyPeriodDays(t *testing.T) {
	t.Parallel()

	doc := decodeJSON(t, `{"day": "mon", "startEvent": "sr", "endEvent": "ss"}`)

	_, err := zone.DecodeDailyPeriod(doc, zone.Strict())
	require.Error(t, err)
	verr := err.(*zone.ValidationError)
	assert.Equal(t, zone.KindTypeMismatch, verr.Find("day").Kind)
	assert.Equal(t, zone.KindInvalidValue, verr.Find("startEvent").Kind)

	dp, err := zone.DecodeDailyPeriod(doc, zone.Coercive())
	require.NoError(t, err)
	assert.Equal(t, []zone.Weekday{zone.WeekdayMonday}, dp.Day)
	assert.Equal(t, zone.DaylightEventSunrise, dp.StartEvent)
	assert.Equal(t, zone.DaylightEventSunset, dp.EndEvent)

	_, err = zone.DecodeDailyPeriod(decodeJSON(t, `{"day": []}`), zone.Strict())
	require.Error(t, err)
	assert.Equal(t, zone.KindConstraintViolation, err.(*zone.ValidationError).Find("day").Kind)

	_, err = zone.DecodeDailyPeriod(decodeJSON(t, `{"day": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN", "ANY"]}`), zone.Strict())
	require.Error(t, err)

	_, err = zone.DecodeDailyPeriod(decodeJSON(t, `{"day": ["FUNDAY"]}`), zone.Strict())
	require.Error(t, err)
	assert.Equal(t, zone.KindInvalidValue, err.(*zone.ValidationError).Find("day[0]").Kind)
}

func TestTimePeriodSchedule(t *testing.T) {
	t.Parallel()

	tp, err := zone.DecodeTimePeriod(decodeJSON(t, `{"schedule": []}`), zone.Strict())
	require.NoError(t, err)
	assert.Empty(t, tp.Schedule)

	// A single schedule entry is not wrapped, even in coercive mode.
	_, err = zone.DecodeTimePeriod(decodeJSON(t, `{"schedule": {"day": ["MON"]}}`), zone.Coercive())
	require.Error(t, err)
	assert.Equal(t, zone.KindTypeMismatch, err.(*zone.ValidationError).Find("schedule").Kind)

	_, err = zone.DecodeTimePeriod(decodeJSON(t, `{"schedule": [{"day": ["MON"]}, {"day": ["TUE"], "endTime": "1", "endEvent": "SS"}]}`), zone.Strict())
	require.Error(t, err)
	assert.NotNil(t, err.(*zone.ValidationError).Find("schedule[1].endTime"))
}
