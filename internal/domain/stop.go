package domain

// Stop is a single waypoint within a trip. Number is the 1-based position in
// the trip's chronological stop order; the builder renumbers on every removal
// so numbers always form a contiguous 1..N sequence. Wait is whole minutes,
// never negative; non-numeric input is coerced to 0 at entry time.
type Stop struct {
	Number   int    `json:"number"`
	Time     string `json:"time"`
	Odometer string `json:"odometer"`
	Location string `json:"location"`
	Reason   string `json:"reason"`
	Wait     int    `json:"wait"`
}
