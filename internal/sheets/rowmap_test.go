package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

func sheetTripFixture() domain.Trip {
	return domain.Trip{
		ID:               "TRIP-ABC",
		Date:             "2024-01-01",
		DriverName:       "John Driver",
		VanID:            "VAN-1",
		Destination:      "Yard 9",
		CrewName:         "Crew A",
		Dispatcher:       "Central",
		RR:               "RR-7",
		H:                "H-2",
		StartingOdometer: "100",
		Stops: []domain.Stop{
			{Number: 1, Time: "08:00", Odometer: "100", Location: "Depot", Reason: "load", Wait: 10},
			{Number: 2, Time: "09:30", Odometer: "125", Location: "Yard 9", Reason: "drop", Wait: 0},
		},
		EOTTime:     "15:00",
		EOTOdometer: "150",
		TotalWait:   10,
		TotalMiles:  "50.0",
		BackTime:    "16:00",
		SubmittedAt: time.Date(2024, 1, 1, 15, 5, 0, 0, time.UTC),
	}
}

func TestTripToRow_SeventeenColumns(t *testing.T) {
	row := tripToRow(sheetTripFixture())

	require.Len(t, row, 17)
	assert.Equal(t, "TRIP-ABC", row[0])
	assert.Equal(t, "John Driver", row[2])
	assert.Equal(t, "10", row[13])
	assert.Equal(t, "50.0", row[14])
	assert.Equal(t, "2024-01-01T15:05:00Z", row[16])
}

func TestFormatStops_CellSyntax(t *testing.T) {
	row := tripToRow(sheetTripFixture())

	assert.Equal(t,
		"#1 08:00 100 Depot load 10min; #2 09:30 125 Yard 9 drop 0min",
		row[10])
}

func TestFormatStops_Empty(t *testing.T) {
	assert.Empty(t, formatStops(nil))
}

func TestRowToSheetTrip_InverseOfTripToRow(t *testing.T) {
	trip := sheetTripFixture()

	got := rowToSheetTrip(tripToRow(trip))

	assert.Equal(t, SheetTrip{
		ID:               "TRIP-ABC",
		Date:             "2024-01-01",
		DriverName:       "John Driver",
		VanID:            "VAN-1",
		Destination:      "Yard 9",
		CrewName:         "Crew A",
		Dispatcher:       "Central",
		RR:               "RR-7",
		H:                "H-2",
		StartingOdometer: "100",
		StopsFormatted:   "#1 08:00 100 Depot load 10min; #2 09:30 125 Yard 9 drop 0min",
		EOTTime:          "15:00",
		EOTOdometer:      "150",
		TotalWait:        "10",
		TotalMiles:       "50.0",
		BackTime:         "16:00",
		SubmittedAt:      "2024-01-01T15:05:00Z",
	}, got)
}

func TestRowToSheetTrip_ShortRowPadsEmpty(t *testing.T) {
	// The values API drops trailing empty cells; a hand-cleared row may come
	// back with only a few columns.
	got := rowToSheetTrip([]string{"TRIP-X", "2024-01-01"})

	assert.Equal(t, "TRIP-X", got.ID)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Empty(t, got.DriverName)
	assert.Empty(t, got.SubmittedAt)
}

func TestExportRows_HeaderPlusSummaryRows(t *testing.T) {
	rows := exportRows([]domain.Trip{sheetTripFixture()})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Trip ID", "Date", "Driver", "Van", "Destination", "Total Miles", "Total Wait"}, rows[0])
	assert.Equal(t, []string{"TRIP-ABC", "2024-01-01", "John Driver", "VAN-1", "Yard 9", "50.0", "10"}, rows[1])
}
