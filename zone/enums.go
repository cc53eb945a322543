package zone

import "strings"

// codeList is a closed set of tokens.
type codeList struct {
	name   string
	values []string

	// lower marks units, which are folded to lowercase instead of uppercase.
	lower bool

	// legacy enables the AUTHORISATION spelling translation.
	legacy bool
}

func (c *codeList) contains(s string) bool {
	for _, v := range c.values {
		if v == s {
			return true
		}
	}
	return false
}

func (c *codeList) describe() string {
	return "'" + strings.Join(c.values, "', '") + "'"
}

// ZoneType is the ED-318 CodeZoneType.
type ZoneType string

const (
	ZoneTypeUSpace           ZoneType = "USPACE"
	ZoneTypeProhibited       ZoneType = "PROHIBITED"
	ZoneTypeReqAuthorization ZoneType = "REQ_AUTHORIZATION"
	ZoneTypeConditional      ZoneType = "CONDITIONAL"
	ZoneTypeNoRestriction    ZoneType = "NO_RESTRICTION"
)

var zoneTypes = &codeList{
	name:   "CodeZoneType",
	values: []string{"USPACE", "PROHIBITED", "REQ_AUTHORIZATION", "CONDITIONAL", "NO_RESTRICTION"},
	legacy: true,
}

// ZoneVariant is the ED-318 CodeZoneVariantType.
type ZoneVariant string

const (
	ZoneVariantCommon     ZoneVariant = "COMMON"
	ZoneVariantCustomized ZoneVariant = "CUSTOMIZED"
)

var zoneVariants = &codeList{
	name:   "CodeZoneVariantType",
	values: []string{"COMMON", "CUSTOMIZED"},
}

// ZoneReason is the ED-318 CodeZoneReasonType.
type ZoneReason string

const (
	ZoneReasonAirTraffic ZoneReason = "AIR_TRAFFIC"
	ZoneReasonSensitive  ZoneReason = "SENSITIVE"
	ZoneReasonPrivacy    ZoneReason = "PRIVACY"
	ZoneReasonPopulation ZoneReason = "POPULATION"
	ZoneReasonNature     ZoneReason = "NATURE"
	ZoneReasonNoise      ZoneReason = "NOISE"
	ZoneReasonEmergency  ZoneReason = "EMERGENCY"
	ZoneReasonDAR        ZoneReason = "DAR"
	ZoneReasonOther      ZoneReason = "OTHER"
)

var zoneReasons = &codeList{
	name: "CodeZoneReasonType",
	values: []string{
		"AIR_TRAFFIC", "SENSITIVE", "PRIVACY", "POPULATION", "NATURE",
		"NOISE", "EMERGENCY", "DAR", "OTHER",
	},
}

// AuthorityRole is the ED-318 CodeAuthorityRole.
type AuthorityRole string

const (
	AuthorityRoleAuthorization AuthorityRole = "AUTHORIZATION"
	AuthorityRoleNotification  AuthorityRole = "NOTIFICATION"
	AuthorityRoleInformation   AuthorityRole = "INFORMATION"
)

var authorityRoles = &codeList{
	name:   "CodeAuthorityRole",
	values: []string{"AUTHORIZATION", "NOTIFICATION", "INFORMATION"},
	legacy: true,
}

// DaylightEvent is the ED-318 CodeDaylightEventType.
type DaylightEvent string

const (
	DaylightEventBMCT    DaylightEvent = "BMCT" // Beginning of morning civil twilight.
	DaylightEventSunrise DaylightEvent = "SR"
	DaylightEventSunset  DaylightEvent = "SS"
	DaylightEventEECT    DaylightEvent = "EECT" // End of evening civil twilight.
)

var daylightEvents = &codeList{
	name:   "CodeDaylightEventType",
	values: []string{"BMCT", "SR", "SS", "EECT"},
}

// Weekday is the ED-318 CodeWeekdayType.
type Weekday string

const (
	WeekdayMonday    Weekday = "MON"
	WeekdayTuesday   Weekday = "TUE"
	WeekdayWednesday Weekday = "WED"
	WeekdayThursday  Weekday = "THU"
	WeekdayFriday    Weekday = "FRI"
	WeekdaySaturday  Weekday = "SAT"
	WeekdaySunday    Weekday = "SUN"
	WeekdayAny       Weekday = "ANY"
)

var weekdays = &codeList{
	name:   "CodeWeekdayType",
	values: []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN", "ANY"},
}

// YesNo is the ED-318 CodeYesNoType.
type YesNo string

const (
	Yes YesNo = "YES"
	No  YesNo = "NO"
)

var yesNo = &codeList{
	name:   "CodeYesNoType",
	values: []string{"YES", "NO"},
}

// VerticalReference is the ED-318 CodeVerticalReferenceType.
type VerticalReference string

const (
	VerticalReferenceAGL   VerticalReference = "AGL"
	VerticalReferenceAMSL  VerticalReference = "AMSL"
	VerticalReferenceWGS84 VerticalReference = "WGS84"
)

var verticalReferences = &codeList{
	name:   "CodeVerticalReferenceType",
	values: []string{"AGL", "AMSL", "WGS84"},
}

// UomDistance is the unit of the limits of a vertical layer.
type UomDistance string

const (
	UomMeters UomDistance = "m"
	UomFeet   UomDistance = "ft"
)

var uomDistances = &codeList{
	name:   "UomDistance",
	values: []string{"m", "ft"},
	lower:  true,
}
