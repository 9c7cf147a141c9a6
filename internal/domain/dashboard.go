package domain

// DashboardStats aggregates the trip collection for a single calendar date.
// Recent holds up to the five most recently submitted trips across the whole
// collection (not just the stats date), newest first.
type DashboardStats struct {
	Date          string `json:"date"`
	TripCount     int    `json:"tripCount"`
	TotalMiles    string `json:"totalMiles"` // one-decimal format, e.g. "142.5"
	TotalWait     int    `json:"totalWait"`
	ActiveDrivers int    `json:"activeDrivers"`
	Recent        []Trip `json:"recent"`
}
