package logmessage

import "strconv"

// Level is the severity carried on the wire. Lower values are more severe;
// consumers rely on this ordering, so it is not aligned with log/slog.
type Level int

const (
	LevelCritical Level = 0
	LevelError    Level = 10
	LevelWarning  Level = 20
	LevelInfo     Level = 30
	LevelDebug    Level = 100
)

var levelNames = map[Level]string{
	LevelCritical: "critical",
	LevelError:    "error",
	LevelWarning:  "warning",
	LevelInfo:     "info",
	LevelDebug:    "debug",
}

// Valid reports whether l is one of the enumerated levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}
