package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/auth"
	"github.com/evcraddock/fieldlog/internal/settings"
)

// secretKeys are never printed by "setting list" or "setting get".
var secretKeys = map[string]bool{
	settings.KeySMTPPass: true,
	auth.PhraseKey:       true,
}

func newSettingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Read and write stored settings",
	}
	cmd.AddCommand(newSettingGetCmd(), newSettingSetCmd(), newSettingListCmd())
	return cmd
}

func newSettingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if secretKeys[key] {
				return fmt.Errorf("%s is write-only", key)
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			v, err := s.settings.Get(key, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]string{"key": key, "value": v})
			}
			fmt.Fprintln(out, v)
			return nil
		},
	}
}

func newSettingSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == auth.PhraseKey {
				return fmt.Errorf("use 'fl access set' to change %s", auth.PhraseKey)
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.settings.Set(args[0], args[1]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]string{"key": args[0], "value": args[1]})
			}
			fmt.Fprintf(out, "%s saved.\n", args[0])
			return nil
		},
	}
}

func newSettingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			all, err := s.settings.All()
			if err != nil {
				return err
			}
			for k := range all {
				if secretKeys[k] {
					all[k] = "********"
				}
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, all)
			}

			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k, all[k]})
			}
			return printTable(out, []string{"KEY", "VALUE"}, rows, "No settings stored.")
		},
	}
}

func newSMTPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smtp",
		Short: "Outgoing mail settings used for emailed reports",
	}
	cmd.AddCommand(newSMTPShowCmd(), newSMTPSetCmd())
	return cmd
}

func newSMTPShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show mail settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			c, err := s.settings.SMTP()
			if err != nil {
				return err
			}
			configured := c.IsConfigured()
			hasPass := c.Pass != ""
			c.Pass = ""

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{
					"host": c.Host, "port": c.Port, "user": c.User, "from": c.From, "configured": configured,
				})
			}
			pass := "(not set)"
			if hasPass {
				pass = "********"
			}
			fmt.Fprintf(out, "Host:       %s\n", c.Host)
			fmt.Fprintf(out, "Port:       %s\n", c.Port)
			fmt.Fprintf(out, "User:       %s\n", c.User)
			fmt.Fprintf(out, "Password:   %s\n", pass)
			fmt.Fprintf(out, "From:       %s\n", c.From)
			fmt.Fprintf(out, "Configured: %t\n", configured)
			return nil
		},
	}
}

func newSMTPSetCmd() *cobra.Command {
	var in settings.SMTPConfig

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change mail settings",
		Long:  "Change mail settings. Only the flags given are changed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			c, err := s.settings.SMTP()
			if err != nil {
				return err
			}
			// SMTP reports From as User when unset; keep it unset.
			if stored, err := s.settings.Get(settings.KeySMTPFrom, ""); err == nil && stored == "" {
				c.From = ""
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				c.Host = in.Host
			}
			if flags.Changed("port") {
				c.Port = in.Port
			}
			if flags.Changed("user") {
				c.User = in.User
			}
			if flags.Changed("pass") {
				c.Pass = in.Pass
			}
			if flags.Changed("from") {
				c.From = in.From
			}

			if err := s.settings.SaveSMTP(c); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"configured": c.IsConfigured()})
			}
			fmt.Fprintln(out, "Mail settings saved.")
			if !c.IsConfigured() {
				fmt.Fprintln(out, "Host, user and password are all needed before reports can be mailed.")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Host, "host", "", "SMTP host")
	f.StringVar(&in.Port, "port", "", "SMTP port (default 587)")
	f.StringVar(&in.User, "user", "", "SMTP user")
	f.StringVar(&in.Pass, "pass", "", "SMTP password")
	f.StringVar(&in.From, "from", "", "sender address (default: user)")
	return cmd
}

func newAccessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Manage the shared access phrase protecting the API",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <phrase>",
			Short: "Set the access phrase",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openStore()
				if err != nil {
					return err
				}
				defer s.close()

				if err := auth.SetPhrase(s.settings, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Access phrase set. API clients must send it as a bearer token.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the access phrase, leaving the API open",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openStore()
				if err != nil {
					return err
				}
				defer s.close()

				if err := auth.ClearPhrase(s.settings); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Access phrase removed.")
				return nil
			},
		},
	)
	return cmd
}
