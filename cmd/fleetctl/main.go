// Command fleetctl works against a FleetFlow Navigator store file directly,
// without going through the API server. It is an operator tool: export the
// trip database to CSV, or print the dashboard aggregates for a date.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/fleetflow/navigator/backend/internal/builder"
	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/repo"
	"github.com/fleetflow/navigator/backend/internal/service"
	"github.com/fleetflow/navigator/backend/internal/store"
	"github.com/fleetflow/navigator/backend/migrations"
)

func main() {
	var dbPath string

	root := &cobra.Command{
		Use:   "fleetctl",
		Short: "Operate on a FleetFlow Navigator trip store",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "fleetflow.db", "Path to the SQLite store file")

	root.AddCommand(newExportCmd(&dbPath), newStatsCmd(&dbPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openTrips opens the store, applies pending migrations, and returns a trip
// service over it. The CLI always queries with manager visibility.
func openTrips(ctx context.Context, dbPath string) (*service.TripService, func(), error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	trips := service.NewTripService(repo.NewTripRepo(store.NewSQLiteKV(db), log), builder.NewRegistry(), nil, log)
	return trips, func() { db.Close() }, nil
}

func newExportCmd(dbPath *string) *cobra.Command {
	var (
		from, to, driver, van string
		out                   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trips to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trips, closeStore, err := openTrips(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer closeStore()

			filter := domain.TripFilter{DateFrom: from, DateTo: to, Driver: driver, VanID: van}
			records, err := trips.Query(ctx, filter, domain.Identity{ID: "fleetctl", Role: domain.RoleManager})
			if err != nil {
				return err
			}

			csv := service.BuildCSV(records)
			if out == "-" {
				if _, err := os.Stdout.Write(csv); err != nil {
					return err
				}
				return nil
			}
			if out == "" {
				out = service.ExportFilename(time.Now())
			}
			if err := os.WriteFile(out, csv, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("exported %d trips to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Earliest trip date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Latest trip date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&driver, "driver", "", "Driver name substring filter")
	cmd.Flags().StringVar(&van, "van", "", "Van ID substring filter")
	cmd.Flags().StringVar(&out, "out", "", `Output file ("-" for stdout, default trips_export_<today>.csv)`)
	return cmd
}

func newStatsCmd(dbPath *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard aggregates for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trips, closeStore, err := openTrips(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer closeStore()

			if date == "" {
				date = time.Now().UTC().Format("2006-01-02")
			}
			stats, err := trips.Dashboard(ctx, date)
			if err != nil {
				return err
			}

			fmt.Printf("date:           %s\n", stats.Date)
			fmt.Printf("trips:          %d\n", stats.TripCount)
			fmt.Printf("total miles:    %s\n", stats.TotalMiles)
			fmt.Printf("total wait:     %d min\n", stats.TotalWait)
			fmt.Printf("active drivers: %d\n", stats.ActiveDrivers)
			if len(stats.Recent) > 0 {
				fmt.Println("recent trips:")
				for _, t := range stats.Recent {
					fmt.Printf("  %s  %s  %s  %s\n", t.ID, t.Date, t.DriverName, t.VanID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to aggregate (YYYY-MM-DD, default today UTC)")
	return cmd
}
