package booking

import (
	"strings"
	"time"
)

// defaultBookingTime is the documented degradation for malformed time
// input: submission proceeds at 09:00 rather than failing outright.
const defaultBookingTime = "09:00"

var timeLayouts = []string{
	"3:04 PM",
	"03:04 PM",
	"15:04",
	"15:04:05",
}

// To24Hour converts a selected time ("2:30 PM", "9:00 AM" or bare 24-hour
// input) to "HH:MM". Anything unparseable yields defaultBookingTime.
func To24Hour(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("15:04")
		}
	}
	return defaultBookingTime
}

// CombineDateTime builds the upstream datetime format
// "YYYY-MM-DDTHH:MM:SS" (no timezone offset) from a date and selected time.
func CombineDateTime(date, selected string) string {
	return date + "T" + To24Hour(selected) + ":00"
}

// upstreamDateTimeLayout is the offset-free datetime format the upstream
// uses everywhere. All such values are wall-clock times in the marketplace
// timezone, never the server's local zone.
const upstreamDateTimeLayout = "2006-01-02T15:04:05"

// marketLocation pins the marketplace timezone so cancellation windows and
// reminder times do not drift with the host's TZ setting. Falls back to a
// fixed UTC+3 when the tz database is unavailable.
var marketLocation = func() *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}()

// MarketLocation returns the pinned marketplace timezone.
func MarketLocation() *time.Location {
	return marketLocation
}

// ParseUpstreamTime parses an offset-free upstream datetime in the
// marketplace timezone.
func ParseUpstreamTime(value string) (time.Time, error) {
	return time.ParseInLocation(upstreamDateTimeLayout, value, marketLocation)
}
