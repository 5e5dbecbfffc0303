package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/task"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage technicians' tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskDoneCmd(),
		newTaskRemoveCmd(),
	)
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var techID, clientID int64
	var due, at string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task for a technician",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if techID == 0 {
				techID = cfg.DefaultTechnician
			}
			if techID == 0 {
				return errors.New("no technician: pass --technician or set one with 'fl technician default <id>'")
			}

			p := task.SaveParams{
				TechnicianID: techID,
				ClientID:     optionalID(clientID),
				Description:  strings.Join(args, " "),
				DueDate:      optionalString(due),
				DueTime:      optionalString(at),
			}
			if err := p.Validate(); err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.tasks.Save(p)
			if err != nil {
				return fmt.Errorf("adding task: %w", err)
			}
			t, err := s.tasks.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, t)
			}
			fmt.Fprintf(out, "Task #%d added for %s.\n", t.ID, t.TechnicianName)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64VarP(&techID, "technician", "t", 0, "technician ID (default from config)")
	f.Int64VarP(&clientID, "client", "c", 0, "related client ID")
	f.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&at, "at", "", "due time (HH:MM)")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var all bool
	var techID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open tasks by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			tasks, err := s.tasks.List(task.ListOptions{TechnicianID: optionalID(techID), IncludeCompleted: all})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, tasks)
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				due := deref(t.DueDate)
				if t.DueTime != nil {
					due += " " + *t.DueTime
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", t.ID),
					due,
					truncate(t.TechnicianName, 16),
					truncate(deref(t.ClientName), 24),
					string(t.State()),
					truncate(t.Description, 50),
				})
			}
			return printTable(out, []string{"ID", "DUE", "TECHNICIAN", "CLIENT", "STATE", "DESCRIPTION"}, rows, "No tasks.")
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include completed tasks")
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "only this technician's tasks")
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.tracker.CompleteTask(id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				t, err := s.tasks.Get(id)
				if err != nil {
					return err
				}
				return printJSON(out, t)
			}
			fmt.Fprintf(out, "Task #%d completed.\n", id)
			return nil
		},
	}
}

func newTaskRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.tracker.DeleteTask(id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"id": id, "removed": true})
			}
			fmt.Fprintf(out, "Task #%d removed.\n", id)
			return nil
		},
	}
}
