// Package cli implements the interactive console client. It reads commands
// from an explicit input stream and writes to an explicit output stream.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/rs/zerolog/log"
)

// Services used by the console.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Workouts service.WorkoutService
	Goals    service.FitnessGoalService
	Codec    *auth.TokenCodec
}

type session struct {
	in       *bufio.Scanner
	out      io.Writer
	svcs     Services
	identity *auth.Identity
}

const menu = `
1. Login
2. Register
3. Browse workouts
4. My goals
0. Exit
`

// Run drives the menu until the user exits, the input ends or ctx is cancelled.
func Run(ctx context.Context, in io.Reader, out io.Writer, svcs Services) error {
	s := &session{in: bufio.NewScanner(in), out: out, svcs: svcs}
	fmt.Fprintln(out, "Fitness Tracker")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, menu)
		choice, ok := s.prompt("Choose an option")
		if !ok {
			return s.in.Err()
		}

		var err error
		switch choice {
		case "1", "login":
			err = s.login(ctx)
		case "2", "register":
			err = s.register(ctx)
		case "3", "workouts":
			err = s.browseWorkouts(ctx)
		case "4", "goals":
			err = s.myGoals(ctx)
		case "0", "exit", "quit":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		default:
			fmt.Fprintf(out, "Unknown option %q\n", choice)
			continue
		}
		if err != nil {
			s.report(err)
		}
	}
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) fields(labels ...string) ([]string, bool) {
	values := make([]string, len(labels))
	for i, label := range labels {
		v, ok := s.prompt(label)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (s *session) report(err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		fmt.Fprintln(s.out, "Invalid input:")
		for field, msg := range validation.Fields {
			fmt.Fprintf(s.out, "  %s: %s\n", field, msg)
		}
	case errors.Is(err, service.ErrAuthenticationFailed):
		fmt.Fprintln(s.out, "Invalid username or password.")
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(s.out, "Error: %v\n", err)
	default:
		log.Error().Err(err).Msg("console command failed")
		fmt.Fprintln(s.out, "An unexpected error occurred.")
	}
}

func (s *session) login(ctx context.Context) error {
	v, ok := s.fields("Username", "Password")
	if !ok {
		return nil
	}
	token, err := s.svcs.Auth.Login(ctx, v[0], v[1])
	if err != nil {
		return err
	}
	id, err := s.svcs.Codec.Verify(token)
	if err != nil {
		return err
	}
	s.identity = &id
	fmt.Fprintf(s.out, "Logged in as %s (%s).\n", id.Subject, id.Role)
	return nil
}

func (s *session) register(ctx context.Context) error {
	v, ok := s.fields("Username", "Email", "Password", "First name", "Last name")
	if !ok {
		return nil
	}
	user, err := s.svcs.Auth.Register(ctx, service.RegisterInput{
		Username:  v[0],
		Email:     v[1],
		Password:  v[2],
		FirstName: v[3],
		LastName:  v[4],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Registered %s. You can log in now.\n", user.Username)
	return nil
}

func (s *session) requireLogin() bool {
	if s.identity == nil {
		fmt.Fprintln(s.out, "Please log in first.")
		return false
	}
	return true
}

func (s *session) browseWorkouts(ctx context.Context) error {
	if !s.requireLogin() {
		return nil
	}
	page, err := s.svcs.Workouts.ListWorkoutsPage(ctx, service.WorkoutQuery{}, service.PageQuery{SortBy: "date", Direction: "desc"})
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(s.out, "No workouts recorded.")
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tTYPE\tMINUTES\tCALORIES")
	for _, wo := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", wo.Date.Format("2006-01-02"), wo.Name, wo.WorkoutType, wo.Duration, wo.CaloriesBurned)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Showing %d of %d workouts.\n", len(page.Items), page.TotalItems)
	return nil
}

func (s *session) myGoals(ctx context.Context) error {
	if !s.requireLogin() {
		return nil
	}
	user, err := s.svcs.Users.GetUserByUsername(ctx, s.identity.Subject)
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(s.out, "This account has no stored profile.")
		return nil
	}
	if err != nil {
		return err
	}

	goals, err := s.svcs.Goals.ListGoals(ctx, service.FitnessGoalQuery{UserID: user.ID.Hex()})
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Fprintln(s.out, "No goals yet.")
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET DATE\tTYPE\tPROGRESS\tSTATUS")
	for _, g := range goals {
		fmt.Fprintf(w, "%s\t%s\t%g/%g\t%s\n", g.TargetDate.Format("2006-01-02"), g.GoalType, g.CurrentValue, g.TargetValue, g.Status)
	}
	return w.Flush()
}
