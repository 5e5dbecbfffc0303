package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/visit"
)

// now is replaced in tests.
var now = time.Now

func newVisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Record and browse visits",
	}
	cmd.AddCommand(
		newVisitAddCmd(),
		newVisitShowCmd(),
		newVisitListCmd(),
		newVisitEditCmd(),
	)
	return cmd
}

func newVisitAddCmd() *cobra.Command {
	var (
		clientID, techID  int64
		date, start, work string
		attendedBy, todo  string
		duration          int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a visit",
		Long: `Record a visit to a client.

Date format: YYYY-MM-DD (default today)
Time format: HH:MM, 24-hour (default now)

Examples:
  fl visit add --client 3 --work "replaced toner" --duration 45
  fl visit add --client 3 --technician 2 --date 2024-03-01 --time 09:30 \
    --work "network check" --pending "order new switch"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if techID == 0 {
				techID = cfg.DefaultTechnician
			}
			if techID == 0 {
				return errors.New("no technician: pass --technician or set one with 'fl technician default <id>'")
			}
			if date == "" {
				date = now().Format(time.DateOnly)
			}
			if start == "" {
				start = now().Format("15:04")
			}

			p := visit.SaveParams{
				ClientID:           clientID,
				TechnicianID:       techID,
				AttendedBy:         optionalString(attendedBy),
				Date:               date,
				StartTime:          start,
				DurationMinutes:    duration,
				WorkPerformed:      work,
				HasPending:         todo != "",
				PendingDescription: optionalString(todo),
			}
			if err := p.Validate(); err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.visits.Save(p)
			if err != nil {
				return fmt.Errorf("recording visit: %w", err)
			}
			v, err := s.visits.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			fmt.Fprintln(out, "Visit recorded.")
			printVisit(out, v)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64VarP(&clientID, "client", "c", 0, "client ID")
	f.Int64VarP(&techID, "technician", "t", 0, "technician ID (default from config)")
	f.StringVarP(&date, "date", "d", "", "visit date (YYYY-MM-DD)")
	f.StringVar(&start, "time", "", "start time (HH:MM)")
	f.IntVar(&duration, "duration", 0, "duration in minutes")
	f.StringVarP(&work, "work", "w", "", "work performed")
	f.StringVar(&attendedBy, "attended-by", "", "person who received the technician")
	f.StringVar(&todo, "pending", "", "follow-up left pending")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("work")
	return cmd
}

func newVisitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visit",
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

			v, err := s.visits.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			printVisit(out, v)
			return nil
		},
	}
}

func newVisitListCmd() *cobra.Command {
	var clientID, techID int64
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visits, newest first",
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

			var visits []*visit.Visit
			switch {
			case clientID != 0:
				visits, err = s.visits.ListForClient(clientID, rng)
			case techID != 0:
				visits, err = s.visits.ListForTechnician(techID, rng)
			default:
				visits, err = s.visits.ListInRange(rng)
			}
			if err != nil {
				return err
			}
			if clientID != 0 && techID != 0 {
				visits = byTechnician(visits, techID)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, visits)
			}
			return printVisitTable(out, visits)
		},
	}

	f := cmd.Flags()
	f.Int64VarP(&clientID, "client", "c", 0, "only this client's visits")
	f.Int64VarP(&techID, "technician", "t", 0, "only this technician's visits")
	f.StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	return cmd
}

func byTechnician(visits []*visit.Visit, techID int64) []*visit.Visit {
	out := visits[:0]
	for _, v := range visits {
		if v.TechnicianID == techID {
			out = append(out, v)
		}
	}
	return out
}

func newVisitEditCmd() *cobra.Command {
	var (
		clientID, techID  int64
		date, start, work string
		attendedBy, todo  string
		duration          int
		noPending         bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a recorded visit",
		Long: `Change a recorded visit. Only the flags given are changed.

--pending sets or rewrites the follow-up item; --no-pending removes it.
A resolved item stays resolved when only its description changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if noPending && flags.Changed("pending") {
				return errors.New("--pending and --no-pending cannot be combined")
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.close()

			v, err := s.visits.Get(id)
			if err != nil {
				return err
			}

			p := visit.SaveParams{
				ID:                 &id,
				ClientID:           v.ClientID,
				TechnicianID:       v.TechnicianID,
				AttendedBy:         v.AttendedBy,
				Date:               v.Date,
				StartTime:          v.StartTime,
				DurationMinutes:    v.DurationMinutes,
				WorkPerformed:      v.WorkPerformed,
				HasPending:         v.HasPending,
				PendingDescription: v.PendingDescription,
			}
			if flags.Changed("client") {
				p.ClientID = clientID
			}
			if flags.Changed("technician") {
				p.TechnicianID = techID
			}
			if flags.Changed("attended-by") {
				p.AttendedBy = optionalString(attendedBy)
			}
			if flags.Changed("date") {
				p.Date = date
			}
			if flags.Changed("time") {
				p.StartTime = start
			}
			if flags.Changed("duration") {
				p.DurationMinutes = duration
			}
			if flags.Changed("work") {
				p.WorkPerformed = work
			}
			if flags.Changed("pending") {
				p.HasPending = todo != ""
				p.PendingDescription = optionalString(todo)
			}
			if noPending {
				p.HasPending = false
				p.PendingDescription = nil
			}
			if err := p.Validate(); err != nil {
				return err
			}

			if _, err := s.visits.Save(p); err != nil {
				return fmt.Errorf("updating visit: %w", err)
			}
			updated, err := s.visits.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, updated)
			}
			fmt.Fprintln(out, "Visit updated.")
			printVisit(out, updated)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64VarP(&clientID, "client", "c", 0, "client ID")
	f.Int64VarP(&techID, "technician", "t", 0, "technician ID")
	f.StringVarP(&date, "date", "d", "", "visit date (YYYY-MM-DD)")
	f.StringVar(&start, "time", "", "start time (HH:MM)")
	f.IntVar(&duration, "duration", 0, "duration in minutes")
	f.StringVarP(&work, "work", "w", "", "work performed")
	f.StringVar(&attendedBy, "attended-by", "", "person who received the technician")
	f.StringVar(&todo, "pending", "", "follow-up left pending")
	f.BoolVar(&noPending, "no-pending", false, "remove the follow-up item")
	return cmd
}
