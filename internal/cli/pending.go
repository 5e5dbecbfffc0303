package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Follow up pending items left on visits",
	}
	cmd.AddCommand(newPendingListCmd(), newPendingResolveCmd())
	return cmd
}

func newPendingListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visits with an open pending item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			visits, err := s.tracker.List(all)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, visits)
			}

			rows := make([][]string, 0, len(visits))
			for _, v := range visits {
				rows = append(rows, []string{
					fmt.Sprintf("%d", v.ID),
					v.Date,
					truncate(v.ClientName, 24),
					truncate(v.TechnicianName, 16),
					pendingLabel(v),
					truncate(deref(v.PendingDescription), 50),
				})
			}
			return printTable(out, []string{"VISIT", "DATE", "CLIENT", "TECHNICIAN", "STATE", "PENDING"}, rows, "Nothing pending.")
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include resolved items")
	return cmd
}

func newPendingResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <visit-id>",
		Short: "Mark a visit's pending item resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.tracker.Resolve(id); err != nil {
				return err
			}
			v, err := s.visits.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			if !v.HasPending {
				fmt.Fprintf(out, "Visit #%d has no pending item.\n", id)
				return nil
			}
			fmt.Fprintf(out, "Pending item on visit #%d resolved.\n", id)
			return nil
		},
	}
}

func newOutstandingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "Count open pending items and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			o, err := s.tracker.CountOutstanding()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, o)
			}
			fmt.Fprintf(out, "Pending items: %d\n", o.OpenPending)
			fmt.Fprintf(out, "Open tasks:    %d\n", o.PendingTasks)
			fmt.Fprintf(out, "Total:         %d\n", o.Total)
			return nil
		},
	}
}
