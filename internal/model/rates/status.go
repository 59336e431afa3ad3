package rates

import "time"

type Source string

const (
	SourceNone    Source = "none"
	SourceLive    Source = "live"
	SourceCache   Source = "cache"
	SourceOffline Source = "offline"
)

const labelTimeLayout = "15:04"

// Status describes where the current rate table came from.
type Status struct {
	Source    Source    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label is a short human readable description of s.
func (s Status) Label() string {
	switch s.Source {
	case SourceLive:
		return "Rates updated: " + s.UpdatedAt.Format(labelTimeLayout)
	case SourceCache:
		return "Using cached rates"
	case SourceOffline:
		return "Offline mode"
	}
	return "Rates are not loaded yet"
}
