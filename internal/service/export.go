package service

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV
// export. The layout matches the downloadable database-view export.
var csvHeaders = []string{
	"Trip ID", "Date", "Driver Name", "Van ID", "Destination",
	"Total Miles", "Total Wait", "Stops Count", "Submitted At",
}

// BuildCSV encodes trips as a 9-column CSV document with a header row.
func BuildCSV(trips []domain.Trip) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer writes never fail.
	w.Write(csvHeaders)
	for _, t := range trips {
		//nolint:errcheck
		w.Write([]string{
			t.ID,
			t.Date,
			t.DriverName,
			t.VanID,
			t.Destination,
			t.TotalMiles,
			strconv.Itoa(t.TotalWait),
			strconv.Itoa(len(t.Stops)),
			t.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// ExportFilename stamps the export download name with the given date,
// e.g. "trips_export_2024-01-01.csv".
func ExportFilename(now time.Time) string {
	return "trips_export_" + now.UTC().Format("2006-01-02") + ".csv"
}
