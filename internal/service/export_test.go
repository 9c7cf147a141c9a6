package service_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/service"
)

func TestBuildCSV_HeaderAndColumns(t *testing.T) {
	trips := []domain.Trip{
		{
			ID:          "TRIP-ABC",
			Date:        "2024-01-01",
			DriverName:  "John Driver",
			VanID:       "VAN-1",
			Destination: "Yard 9",
			TotalMiles:  "50.0",
			TotalWait:   10,
			Stops: []domain.Stop{
				{Number: 1, Location: "Depot"},
				{Number: 2, Location: "Yard 9"},
			},
			SubmittedAt: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		},
	}

	records, err := csv.NewReader(bytes.NewReader(service.BuildCSV(trips))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Trip ID", "Date", "Driver Name", "Van ID", "Destination",
		"Total Miles", "Total Wait", "Stops Count", "Submitted At",
	}, records[0])
	assert.Equal(t, []string{
		"TRIP-ABC", "2024-01-01", "John Driver", "VAN-1", "Yard 9",
		"50.0", "10", "2", "2024-01-01T12:30:00Z",
	}, records[1])
}

func TestBuildCSV_EmptyCollection_HeaderOnly(t *testing.T) {
	records, err := csv.NewReader(bytes.NewReader(service.BuildCSV(nil))).ReadAll()

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0], 9)
}

func TestBuildCSV_QuotesCommasInFields(t *testing.T) {
	trips := []domain.Trip{
		{ID: "TRIP-1", Destination: "Springfield, IL", SubmittedAt: time.Unix(0, 0)},
	}

	records, err := csv.NewReader(bytes.NewReader(service.BuildCSV(trips))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Springfield, IL", records[1][4])
}

func TestExportFilename_StampsUTCDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("behind", -5*3600))

	// 23:30 at UTC-5 is already March 16th in UTC.
	assert.Equal(t, "trips_export_2024-03-16.csv", service.ExportFilename(now))
}
