package cli

import (
	"fmt"
	"time"

	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"

	"github.com/spf13/cobra"
)

// reportRange returns [from, to) covering the last days UTC days up to and
// including today
func reportRange(now time.Time, days int) (time.Time, time.Time) {
	today := now.UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -(days - 1)), today.AddDate(0, 0, 1)
}

func newReportCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print daily sales of completed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewReportService(repository.NewOrderRepository(db))
			from, to := reportRange(time.Now(), days)
			report, err := svc.Sales(cmd.Context(), from, to)
			if err != nil {
				return fmt.Errorf("building report: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderSalesReport(report))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days to include, ending today")

	return cmd
}
