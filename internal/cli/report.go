package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/report"
	"github.com/evcraddock/fieldlog/internal/visit"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Coverage statistics and client reports",
	}
	cmd.AddCommand(
		newReportCoverageCmd(),
		newReportUnservedCmd(),
		newReportClientCmd(),
		newReportTechniciansCmd(),
	)
	return cmd
}

// rangeFlags registers --from and --to on cmd.
func rangeFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(to, "to", "", "last date (YYYY-MM-DD)")
}

func newReportCoverageCmd() *cobra.Command {
	var from, to string
	var techID int64

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Visits and time spent per active client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := visit.ParseRange(from, to)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			rows, err := s.reports.ClientCoverage(report.Filter{TechnicianID: optionalID(techID), Range: rng})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, rows)
			}

			fmt.Fprintf(out, "Coverage, %s\n\n", describeRange(rng))
			table := make([][]string, 0, len(rows))
			visits, minutes := 0, 0
			for _, c := range rows {
				table = append(table, []string{
					truncate(c.ClientName, 32),
					deref(c.TechnicianName),
					fmt.Sprintf("%d", c.Visits),
					report.FormatDuration(c.Minutes),
				})
				visits += c.Visits
				minutes += c.Minutes
			}
			if err := printTable(out, []string{"CLIENT", "TECHNICIAN", "VISITS", "TIME"}, table, "No active clients."); err != nil {
				return err
			}
			if len(rows) > 0 {
				fmt.Fprintf(out, "\nTotal: %d visits, %s\n", visits, report.FormatDuration(minutes))
			}
			return nil
		},
	}

	rangeFlags(cmd, &from, &to)
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "only clients assigned to this technician")
	return cmd
}

func newReportUnservedCmd() *cobra.Command {
	var from, to string
	var techID int64

	cmd := &cobra.Command{
		Use:   "unserved",
		Short: "Active clients without a visit in the range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := visit.ParseRange(from, to)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			clients, err := s.reports.ClientsWithoutVisits(report.Filter{TechnicianID: optionalID(techID), Range: rng})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, clients)
			}

			fmt.Fprintf(out, "Clients without visits, %s\n\n", describeRange(rng))
			rows := make([][]string, 0, len(clients))
			for _, c := range clients {
				rows = append(rows, []string{fmt.Sprintf("%d", c.ID), truncate(c.Name, 32), deref(c.TechnicianName)})
			}
			return printTable(out, []string{"ID", "CLIENT", "TECHNICIAN"}, rows, "Every active client was visited.")
		},
	}

	rangeFlags(cmd, &from, &to)
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "only clients assigned to this technician")
	return cmd
}

func newReportClientCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "client <id>",
		Short: "A client's visits and total time in the range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			rng, err := visit.ParseRange(from, to)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			rep, err := s.reports.ClientReport(id, rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, rep)
			}
			fmt.Fprintf(out, "%s, %s\n\n", rep.Client.Name, describeRange(rng))
			return printVisitTable(out, rep.Visits)
		},
	}

	rangeFlags(cmd, &from, &to)
	return cmd
}

func newReportTechniciansCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "technicians",
		Short: "Visits and time logged per active technician",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := visit.ParseRange(from, to)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			loads, err := s.reports.TechnicianSummary(rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, loads)
			}

			fmt.Fprintf(out, "Technicians, %s\n\n", describeRange(rng))
			rows := make([][]string, 0, len(loads))
			for _, l := range loads {
				rows = append(rows, []string{l.TechnicianName, fmt.Sprintf("%d", l.Visits), report.FormatDuration(l.Minutes)})
			}
			return printTable(out, []string{"TECHNICIAN", "VISITS", "TIME"}, rows, "No active technicians.")
		},
	}

	rangeFlags(cmd, &from, &to)
	return cmd
}
