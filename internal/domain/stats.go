package domain

// StatWindow is one rolling-window aggregate of sleep timing. Times are
// "HH:MM" clock strings, duration is "H:MM". A window with no qualifying
// entries carries nil for every field, never a fabricated value.
type StatWindow struct {
	Bedtime  *string `json:"bedtime"`
	WakeTime *string `json:"wakeTime"`
	Duration *string `json:"duration"`
}

// SleepStats aggregates the last 7 days, the last 30 days, and the last 12
// full calendar months.
type SleepStats struct {
	Week  StatWindow `json:"week"`
	Month StatWindow `json:"month"`
	Year  StatWindow `json:"year"`
}
