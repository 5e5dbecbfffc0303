package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/visit"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		newClientAddCmd(),
		newClientListCmd(),
		newClientShowCmd(),
		newClientEditCmd(),
		newClientRemoveCmd(),
	)
	return cmd
}

func newClientAddCmd() *cobra.Command {
	var email, phone string
	var techID int64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := client.SaveParams{
				Name:         strings.Join(args, " "),
				Email:        optionalString(email),
				Phone:        optionalString(phone),
				TechnicianID: optionalID(techID),
			}
			if err := p.Validate(); err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.clients.Save(p)
			if err != nil {
				return fmt.Errorf("adding client: %w", err)
			}
			c, err := s.clients.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, c)
			}
			fmt.Fprintf(out, "Client #%d added: %s\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "assigned technician ID")
	return cmd
}

func newClientListCmd() *cobra.Command {
	var all bool
	var techID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			clients, err := s.clients.List(client.ListOptions{ActiveOnly: !all, TechnicianID: optionalID(techID)})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, clients)
			}

			rows := make([][]string, 0, len(clients))
			for _, c := range clients {
				name := truncate(c.Name, 32)
				if !c.Active {
					name += " (inactive)"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", c.ID), name, deref(c.Email), deref(c.Phone), deref(c.TechnicianName)})
			}
			if err := printTable(out, []string{"ID", "NAME", "EMAIL", "PHONE", "TECHNICIAN"}, rows, "No clients found."); err != nil {
				return err
			}
			if len(clients) > 0 {
				fmt.Fprintf(out, "\nTotal: %d clients\n", len(clients))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive clients")
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "only clients assigned to this technician")
	return cmd
}

func newClientShowCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client and their visits",
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

			c := rep.Client
			fmt.Fprintf(out, "Client #%d\n", c.ID)
			fmt.Fprintf(out, "  Name:       %s\n", c.Name)
			fmt.Fprintf(out, "  Email:      %s\n", deref(c.Email))
			fmt.Fprintf(out, "  Phone:      %s\n", deref(c.Phone))
			if c.TechnicianID != nil {
				tech, err := s.technicians.Get(*c.TechnicianID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  Technician: %s\n", tech.Name)
			}
			if !c.Active {
				fmt.Fprintln(out, "  Status:     inactive")
			}
			fmt.Fprintf(out, "\nVisits (%s):\n", describeRange(rng))
			return printVisitTable(out, rep.Visits)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	return cmd
}

func newClientEditCmd() *cobra.Command {
	var name, email, phone string
	var techID int64

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a client's details",
		Long:  "Change a client's details. Pass an empty value to clear --email or --phone, and --technician 0 to unassign.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			c, err := s.clients.Get(id)
			if err != nil {
				return err
			}
			p := client.SaveParams{ID: &id, Name: c.Name, Email: c.Email, Phone: c.Phone, TechnicianID: c.TechnicianID}
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("email") {
				p.Email = optionalString(email)
			}
			if flags.Changed("phone") {
				p.Phone = optionalString(phone)
			}
			if flags.Changed("technician") {
				p.TechnicianID = optionalID(techID)
			}
			if err := p.Validate(); err != nil {
				return err
			}

			if _, err := s.clients.Save(p); err != nil {
				return fmt.Errorf("updating client: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				updated, err := s.clients.Get(id)
				if err != nil {
					return err
				}
				return printJSON(out, updated)
			}
			fmt.Fprintf(out, "Client #%d updated.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	cmd.Flags().Int64VarP(&techID, "technician", "t", 0, "assigned technician ID (0 to unassign)")
	return cmd
}

func newClientRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Deactivate a client",
		Long:  "Deactivate a client. Their visit history is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.clients.Deactivate(id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"id": id, "active": false})
			}
			fmt.Fprintf(out, "Client #%d deactivated.\n", id)
			return nil
		},
	}
}
