// Package domain contains the core data types for the FleetFlow Navigator API.
// This package has zero external dependencies and is imported by every other
// internal package (store, repo, builder, session, service, handler).
package domain

import "time"

// Trip is one completed driving assignment record. A trip is assembled whole
// from a builder snapshot and appended atomically to the repository; it is
// never partially persisted and never mutated after submission.
//
// Odometer readings and TotalMiles are kept as the raw strings the driver
// entered (miles formatted to one decimal at calculation time). Dates are ISO
// calendar dates ("2006-01-02"), which makes range filtering a plain string
// comparison.
type Trip struct {
	ID               string    `json:"id"`
	DriverID         string    `json:"driverId"`
	DriverName       string    `json:"driverName"`
	Date             string    `json:"date"`
	VanID            string    `json:"vanId"`
	Destination      string    `json:"destination,omitempty"`
	CrewName         string    `json:"crewName,omitempty"`
	Dispatcher       string    `json:"dispatcher,omitempty"`
	RR               string    `json:"rr,omitempty"`
	H                string    `json:"h,omitempty"`
	StartingOdometer string    `json:"startingOdometer,omitempty"`
	Stops            []Stop    `json:"stops"`
	EOTTime          string    `json:"eotTime,omitempty"`
	EOTOdometer      string    `json:"eotOdometer,omitempty"`
	TotalWait        int       `json:"totalWait"`
	TotalMiles       string    `json:"totalMiles,omitempty"`
	BackTime         string    `json:"backTime,omitempty"`
	SubmittedAt      time.Time `json:"submittedAt"`
	SubmittedBy      string    `json:"submittedBy"`
}

// TripForm carries the free-text trip sheet fields a driver fills in before
// submission. Stops and odometer readings live in the builder; DriverID and
// SubmittedBy are stamped from the session at save time and are deliberately
// absent here.
type TripForm struct {
	DriverName  string `json:"driverName"`
	Date        string `json:"date"`
	VanID       string `json:"vanId"`
	Destination string `json:"destination"`
	CrewName    string `json:"crewName"`
	Dispatcher  string `json:"dispatcher"`
	RR          string `json:"rr"`
	H           string `json:"h"`
	EOTTime     string `json:"eotTime"`
	BackTime    string `json:"backTime"`
}

// TripFilter selects trips in repository queries. All supplied criteria are
// combined with AND; zero-value fields do not filter. Driver and VanID are
// case-insensitive substring matches, DateFrom/DateTo an inclusive range.
type TripFilter struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Driver   string `json:"driver"`
	VanID    string `json:"vanId"`
}
