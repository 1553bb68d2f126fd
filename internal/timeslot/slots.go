package timeslot

import "time"

// Slot keys. Every hour of the week maps to exactly one of these.
const (
	SundayFunday     = "sunday_funday"
	Daytime          = "daytime"
	WeekdayHappyHour = "weekday_happy_hour"
	WeekdayNight     = "weekday_night"
	FridayEarly      = "friday_early"
	FridayPeak       = "friday_peak"
	SaturdayEarly    = "saturday_early"
	SaturdayPeak     = "saturday_peak"
)

// AllSlots lists every slot key, in rough chronological order through
// the week.
var AllSlots = []string{
	Daytime,
	WeekdayHappyHour,
	WeekdayNight,
	FridayEarly,
	FridayPeak,
	SaturdayEarly,
	SaturdayPeak,
	SundayFunday,
}

// Resolve maps a local timestamp to its slot key.
//
// Precedence: Sunday wins the whole day, then anything before 16:00 is
// daytime, then the day decides the evening shape. Friday and Saturday
// split at 21:00 into early/peak; Monday-Thursday split at 19:00 into
// happy hour/night.
func Resolve(t time.Time) string {
	day := t.Weekday()
	hour := t.Hour()

	// 1. Sunday is one long slot, mornings included
	if day == time.Sunday {
		return SundayFunday
	}

	// 2. Before 16:00 every other day runs the daytime profile
	if hour < 16 {
		return Daytime
	}

	// 3. Evening shape depends on the day
	switch day {
	case time.Friday:
		if hour < 21 {
			return FridayEarly
		}
		return FridayPeak
	case time.Saturday:
		if hour < 21 {
			return SaturdayEarly
		}
		return SaturdayPeak
	default:
		if hour < 19 {
			return WeekdayHappyHour
		}
		return WeekdayNight
	}
}
