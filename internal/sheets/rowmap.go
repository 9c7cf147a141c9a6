// Package sheets is the spreadsheet sync collaborator. The core only
// depends on the narrow Client interface; the row layout below is the wire
// contract with the shared fleet spreadsheet and must not drift.
package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// tripRange covers the 17-column trip layout on the main sheet.
const (
	appendRange = "Sheet1!A:Q"
	loadRange   = "Sheet1!A2:Q"
)

// SheetTrip is one trip row as read back from the spreadsheet: seventeen
// columns, all strings, with the stop sequence flattened into a single
// formatted cell. It is deliberately not a domain.Trip — the flattening is
// lossy and rows may have been hand-edited.
type SheetTrip struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	DriverName       string `json:"driverName"`
	VanID            string `json:"vanId"`
	Destination      string `json:"destination"`
	CrewName         string `json:"crewName"`
	Dispatcher       string `json:"dispatcher"`
	RR               string `json:"rr"`
	H                string `json:"h"`
	StartingOdometer string `json:"startingOdometer"`
	StopsFormatted   string `json:"stopsFormatted"`
	EOTTime          string `json:"eotTime"`
	EOTOdometer      string `json:"eotOdometer"`
	TotalWait        string `json:"totalWait"`
	TotalMiles       string `json:"totalMiles"`
	BackTime         string `json:"backTime"`
	SubmittedAt      string `json:"submittedAt"`
}

// tripToRow flattens a trip into the fixed 17-column sheet layout.
func tripToRow(t domain.Trip) []string {
	return []string{
		t.ID,
		t.Date,
		t.DriverName,
		t.VanID,
		t.Destination,
		t.CrewName,
		t.Dispatcher,
		t.RR,
		t.H,
		t.StartingOdometer,
		formatStops(t.Stops),
		t.EOTTime,
		t.EOTOdometer,
		strconv.Itoa(t.TotalWait),
		t.TotalMiles,
		t.BackTime,
		t.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

// rowToSheetTrip is the inverse mapping. Short rows (trailing empty cells
// are dropped by the API) pad with empty strings.
func rowToSheetTrip(row []string) SheetTrip {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return SheetTrip{
		ID:               cell(0),
		Date:             cell(1),
		DriverName:       cell(2),
		VanID:            cell(3),
		Destination:      cell(4),
		CrewName:         cell(5),
		Dispatcher:       cell(6),
		RR:               cell(7),
		H:                cell(8),
		StartingOdometer: cell(9),
		StopsFormatted:   cell(10),
		EOTTime:          cell(11),
		EOTOdometer:      cell(12),
		TotalWait:        cell(13),
		TotalMiles:       cell(14),
		BackTime:         cell(15),
		SubmittedAt:      cell(16),
	}
}

// formatStops flattens a stop sequence into the single-cell syntax
// "#<n> <time> <odometer> <location> <reason> <wait>min", stops joined by
// "; ".
func formatStops(stops []domain.Stop) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = fmt.Sprintf("#%d %s %s %s %s %dmin", i+1, s.Time, s.Odometer, s.Location, s.Reason, s.Wait)
	}
	return strings.Join(parts, "; ")
}

// exportHeaders is the 7-column summary layout for workspace exports.
var exportHeaders = []string{"Trip ID", "Date", "Driver", "Van", "Destination", "Total Miles", "Total Wait"}

// exportRows builds the header row plus one 7-column summary row per trip.
func exportRows(trips []domain.Trip) [][]string {
	rows := make([][]string, 0, len(trips)+1)
	rows = append(rows, exportHeaders)
	for _, t := range trips {
		rows = append(rows, []string{
			t.ID, t.Date, t.DriverName, t.VanID, t.Destination, t.TotalMiles, strconv.Itoa(t.TotalWait),
		})
	}
	return rows
}
