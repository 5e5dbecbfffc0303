package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/config"
	"github.com/evcraddock/fieldlog/internal/technician"
)

func newTechnicianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "technician",
		Aliases: []string{"tech"},
		Short:   "Manage technicians",
	}
	cmd.AddCommand(
		newTechnicianAddCmd(),
		newTechnicianListCmd(),
		newTechnicianEditCmd(),
		newTechnicianRemoveCmd(),
		newTechnicianDefaultCmd(),
	)
	return cmd
}

func newTechnicianAddCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a technician",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if err := technician.ValidateName(name); err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.technicians.Save(name, optionalString(email), nil)
			if err != nil {
				return fmt.Errorf("adding technician: %w", err)
			}
			tech, err := s.technicians.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, tech)
			}
			fmt.Fprintf(out, "Technician #%d added: %s\n", tech.ID, tech.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newTechnicianListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List technicians",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			techs, err := s.technicians.List(!all)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, techs)
			}

			rows := make([][]string, 0, len(techs))
			for _, t := range techs {
				status := "active"
				if !t.Active {
					status = "inactive"
				}
				marker := ""
				if t.ID == cfg.DefaultTechnician {
					marker = "*"
				}
				rows = append(rows, []string{fmt.Sprintf("%d%s", t.ID, marker), t.Name, deref(t.Email), status})
			}
			return printTable(out, []string{"ID", "NAME", "EMAIL", "STATUS"}, rows, "No technicians found.")
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive technicians")
	return cmd
}

func newTechnicianEditCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a technician's name or email",
		Long:  "Change a technician's name or email. Pass --email \"\" to clear the email.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("technician", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			tech, err := s.technicians.Get(id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				tech.Name = name
			}
			if cmd.Flags().Changed("email") {
				tech.Email = optionalString(email)
			}
			if err := technician.ValidateName(tech.Name); err != nil {
				return err
			}

			if _, err := s.technicians.Save(tech.Name, tech.Email, &id); err != nil {
				return fmt.Errorf("updating technician: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, tech)
			}
			fmt.Fprintf(out, "Technician #%d updated.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	return cmd
}

func newTechnicianRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Deactivate a technician",
		Long:  "Deactivate a technician. Their visits and client assignments are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("technician", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.technicians.Deactivate(id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"id": id, "active": false})
			}
			fmt.Fprintf(out, "Technician #%d deactivated.\n", id)
			return nil
		},
	}
}

// newTechnicianDefaultCmd remembers the technician preselected by
// "visit add" in the config file.
func newTechnicianDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <id>",
		Short: "Set the technician used when visit add gets no --technician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("technician", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			tech, err := s.technicians.Get(id)
			if err != nil {
				return err
			}

			file, err := config.ReadFile()
			if err != nil {
				return err
			}
			file.DefaultTechnician = id
			if err := config.Save(file); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, tech)
			}
			fmt.Fprintf(out, "Default technician: %s (#%d)\n", tech.Name, tech.ID)
			return nil
		},
	}
}
