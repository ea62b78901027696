package engine

// Default cycle durations, in seconds.
const (
	DefaultFocusSeconds      = 25 * 60
	DefaultShortBreakSeconds = 5 * 60
	DefaultLongBreakSeconds  = 15 * 60
	DefaultLongBreakEvery    = 4
)

// Config holds the cycle durations for one Pomodoro instance. It is an
// explicit value rather than shared package state so independent engines
// (and tests) can run with different settings.
type Config struct {
	FocusSeconds      int
	ShortBreakSeconds int
	LongBreakSeconds  int
	// LongBreakEvery is the number of completed focus phases after which the
	// next break is a long one.
	LongBreakEvery int
}

func DefaultConfig() Config {
	return Config{
		FocusSeconds:      DefaultFocusSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
		LongBreakEvery:    DefaultLongBreakEvery,
	}
}

// Normalize coerces every duration to at least one second and the long-break
// cadence to at least one focus phase.
func (c Config) Normalize() Config {
	if c.FocusSeconds < 1 {
		c.FocusSeconds = 1
	}
	if c.ShortBreakSeconds < 1 {
		c.ShortBreakSeconds = 1
	}
	if c.LongBreakSeconds < 1 {
		c.LongBreakSeconds = 1
	}
	if c.LongBreakEvery < 1 {
		c.LongBreakEvery = 1
	}
	return c
}

// ConfigFromMinutes builds a Config from whole-minute user input, coercing
// each value to at least one minute (and the cadence to at least 1).
func ConfigFromMinutes(focusM, shortM, longM, everyN int) Config {
	if focusM < 1 {
		focusM = 1
	}
	if shortM < 1 {
		shortM = 1
	}
	if longM < 1 {
		longM = 1
	}
	return Config{
		FocusSeconds:      focusM * 60,
		ShortBreakSeconds: shortM * 60,
		LongBreakSeconds:  longM * 60,
		LongBreakEvery:    everyN,
	}.Normalize()
}

// DurationFor returns the configured countdown for a phase.
func (c Config) DurationFor(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return c.ShortBreakSeconds
	case PhaseLongBreak:
		return c.LongBreakSeconds
	default:
		return c.FocusSeconds
	}
}
