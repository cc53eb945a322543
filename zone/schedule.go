package zone

// DailyPeriod is a weekly schedule entry. Each end of the window is either a
// time of day or a daylight event, never both; either may be left open.
type DailyPeriod struct {
	Day        []Weekday     `json:"day"`
	StartTime  *TimeOfDay    `json:"startTime,omitempty"`
	StartEvent DaylightEvent `json:"startEvent,omitempty"`
	EndTime    *TimeOfDay    `json:"endTime,omitempty"`
	EndEvent   DaylightEvent `json:"endEvent,omitempty"`
}

// TimePeriod is a date range of applicability with an optional schedule.
type TimePeriod struct {
	StartDateTime *DateTime     `json:"startDateTime,omitempty"`
	EndDateTime   *DateTime     `json:"endDateTime,omitempty"`
	Schedule      []DailyPeriod `json:"schedule,omitzero"`
}

func (d *decoder) weekday(p Path, v interface{}) (Weekday, bool) {
	s, ok := d.code(p, v, weekdays)
	return Weekday(s), ok
}

func (d *decoder) daylightEvent(p Path, v interface{}) DaylightEvent {
	s, _ := d.code(p, v, daylightEvents)
	return DaylightEvent(s)
}

func (d *decoder) dailyPeriod(p Path, v interface{}) (DailyPeriod, bool) {
	o := d.object(p, v)
	if o == nil {
		return DailyPeriod{}, false
	}
	mark := d.mark()
	dp := DailyPeriod{}
	if v, p, ok := o.required("day"); ok {
		dp.Day, _ = decodeList(d, p, v, 1, 7, true, d.weekday)
	}
	if v, p, ok := o.optional("startTime"); ok {
		dp.StartTime = d.timeOfDay(p, v)
	}
	if v, p, ok := o.optional("startEvent"); ok {
		dp.StartEvent = d.daylightEvent(p, v)
	}
	if v, p, ok := o.optional("endTime"); ok {
		dp.EndTime = d.timeOfDay(p, v)
	}
	if v, p, ok := o.optional("endEvent"); ok {
		dp.EndEvent = d.daylightEvent(p, v)
	}
	o.close()
	if !d.okSince(mark) {
		return DailyPeriod{}, false
	}
	if dp.StartTime != nil && dp.StartEvent != "" {
		d.exclusive(p, "startTime", "startEvent")
	}
	if dp.EndTime != nil && dp.EndEvent != "" {
		d.exclusive(p, "endTime", "endEvent")
	}
	return dp, d.okSince(mark)
}

func (d *decoder) exclusive(p Path, a, b string) {
	cause := &ExclusiveFieldsError{Fields: [2]string{a, b}}
	d.fail(p, KindMutuallyExclusiveFields, cause, "%v", cause)
}

func (d *decoder) timePeriod(p Path, v interface{}) (TimePeriod, bool) {
	o := d.object(p, v)
	if o == nil {
		return TimePeriod{}, false
	}
	mark := d.mark()
	tp := TimePeriod{}
	if v, p, ok := o.optional("startDateTime"); ok {
		tp.StartDateTime = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("endDateTime"); ok {
		tp.EndDateTime = d.dateTime(p, v)
	}
	if v, p, ok := o.optional("schedule"); ok {
		tp.Schedule, _ = d.schedule(p, v)
	}
	o.close()
	return tp, d.okSince(mark)
}

// schedule is a plain list: it is neither wrapped when given as a single
// object nor required to be non-empty.
func (d *decoder) schedule(p Path, v interface{}) ([]DailyPeriod, bool) {
	if _, ok := v.([]interface{}); !ok {
		d.fail(p, KindTypeMismatch, nil, "expected array, got %s", jsonType(v))
		return nil, false
	}
	return decodeList(d, p, v, 0, 0, true, d.dailyPeriod)
}
