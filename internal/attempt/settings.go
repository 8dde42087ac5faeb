package attempt

import "time"

// Settings are the per-user timing preferences the Clock reads.
type Settings struct {
	// UseInspection enables the pre-solve countdown.
	UseInspection bool
	// InspectionSeconds is the countdown length. Zero means 15.
	InspectionSeconds int
	// GracePeriod delays re-enabling inputs after a completed attempt.
	GracePeriod time.Duration
	// EnablePoll is the retry interval for a deferred enable.
	EnablePoll time.Duration
	// NoInspectionContexts lists contexts that never use inspection,
	// regardless of UseInspection (blindfolded events).
	NoInspectionContexts []string
}

// DefaultSettings returns the standard timing preferences.
func DefaultSettings() Settings {
	return Settings{
		UseInspection:     false,
		InspectionSeconds: 15,
		GracePeriod:       1500 * time.Millisecond,
		EnablePoll:        200 * time.Millisecond,
	}
}

func (s Settings) inspectionSeconds() int {
	if s.InspectionSeconds <= 0 {
		return 15
	}
	return s.InspectionSeconds
}

func (s Settings) enablePoll() time.Duration {
	if s.EnablePoll <= 0 {
		return 200 * time.Millisecond
	}
	return s.EnablePoll
}

// inspects reports whether an attempt in the given context uses inspection.
func (s Settings) inspects(contextID string) bool {
	if !s.UseInspection {
		return false
	}
	for _, id := range s.NoInspectionContexts {
		if id == contextID {
			return false
		}
	}
	return true
}
