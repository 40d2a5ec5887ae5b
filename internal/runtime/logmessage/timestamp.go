package logmessage

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Bounds of the years FormatTime can represent, as Unix seconds.
const (
	minEpochSeconds = -62135596800 // 0001-01-01T00:00:00Z
	maxEpochSeconds = 253402300799 // 9999-12-31T23:59:59Z
)

var errEpochOutOfRange = errors.New("epoch timestamp out of range")

// nowFunc is swapped in tests.
var nowFunc = time.Now

// FormatTime renders t in local time as "YYYY-MM-DD HH:MM:SS", adding a
// ".ffffff" microsecond suffix when the sub-second part is non-zero.
func FormatTime(t time.Time) string {
	t = t.Round(time.Microsecond).Local()
	out := t.Format(timestampLayout)
	if us := t.Nanosecond() / 1000; us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	return out
}

// SetTimestamp stores t following the default-filling policy: nil becomes the
// current time, numeric epoch seconds are formatted (falling back to the raw
// number when they cannot be represented), time.Time values are formatted and
// anything else is kept verbatim.
func (m *LogMessage) SetTimestamp(t any) {
	switch v := t.(type) {
	case nil:
		m.Timestamp = FormatTime(nowFunc())
		return
	case time.Time:
		m.Timestamp = FormatTime(v)
		return
	}

	seconds, ok := epochSeconds(t)
	if !ok {
		m.Timestamp = t
		return
	}
	converted, err := fromEpoch(seconds)
	if err != nil {
		m.Timestamp = t
		return
	}
	m.Timestamp = FormatTime(converted)
}

func epochSeconds(t any) (float64, bool) {
	switch v := t.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func fromEpoch(seconds float64) (time.Time, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, errEpochOutOfRange
	}
	if seconds < minEpochSeconds || seconds > maxEpochSeconds {
		return time.Time{}, errEpochOutOfRange
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))), nil
}
