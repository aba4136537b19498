package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/avolkov/sadhana-tracker/internal/api"
	"github.com/avolkov/sadhana-tracker/internal/config"
	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/notify"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/repository/sqlite"
	"github.com/avolkov/sadhana-tracker/internal/session"
	"github.com/avolkov/sadhana-tracker/internal/store"
	syncpkg "github.com/avolkov/sadhana-tracker/internal/sync"
)

const usage = `usage: sadhana <command> [flags]

commands:
  register   create an account and log in
  login      log in with email and password
  logout     clear the local session
  sleep      set bedtime/wake/nap for a date
  habit      manage the habit catalog (add|rm|rename|list)
  toggle     cycle a habit mark for a date (unmarked -> yes -> no -> unmarked)
  list       print all daily entries
  stats      print sleep statistics
  remind     send the daily reminder if yesterday is unlogged
`

type app struct {
	cfg     *config.Config
	store   *store.Store
	client  *api.Client
	session *session.Manager
	records repository.RecordRepository
	coord   *syncpkg.Coordinator
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("sadhana: %v", err)
	}

	st, err := store.Open(cfg.DBPath, cfg.BusinessOffset())
	if err != nil {
		log.Fatalf("sadhana: %v", err)
	}
	defer st.Close()

	client := api.NewClient(cfg.APIBaseURL)
	mgr, err := session.NewManager(st, client)
	if err != nil {
		log.Fatalf("sadhana: %v", err)
	}
	client.SetTokenSource(mgr)

	records := sqlite.NewRecordRepository(st.DB(), cfg.BusinessOffset())
	coord := syncpkg.NewCoordinator(client)
	coord.OnReconcile(func(entries []domain.DailyEntry) {
		if err := records.ReplaceAll(context.Background(), entries); err != nil {
			log.Printf("sadhana: mirror to local store failed: %v", err)
		}
	})

	a := &app{cfg: cfg, store: st, client: client, session: mgr, records: records, coord: coord}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("sadhana: %v", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.session.Logout()
	case "sleep":
		return a.sleep(ctx, args)
	case "habit":
		return a.habit(ctx, args)
	case "toggle":
		return a.toggle(ctx, args)
	case "list":
		return a.list(ctx)
	case "stats":
		return a.stats(ctx)
	case "remind":
		return a.remind(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func credentialFlags(name string, args []string) (email, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if email == "" || password == "" {
		return "", "", fmt.Errorf("-email and -password are required")
	}
	return email, password, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	email, password, err := credentialFlags("register", args)
	if err != nil {
		return err
	}
	resp, err := a.client.Register(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(resp.AccessToken); err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s\n", resp.User.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	email, password, err := credentialFlags("login", args)
	if err != nil {
		return err
	}
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(resp.AccessToken); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", resp.User.Email)
	return nil
}

func (a *app) sleep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sleep", flag.ContinueOnError)
	date := fs.String("date", "", "entry date (YYYY-MM-DD)")
	bed := fs.String("bed", "", `bedtime ("YYYY-MM-DD HH:MM")`)
	wake := fs.String("wake", "", `wake time ("YYYY-MM-DD HH:MM")`)
	nap := fs.Int("nap", 0, "nap duration in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" {
		return fmt.Errorf("-date is required")
	}

	input := domain.SleepInput{NapDurationMin: nap}
	if *bed != "" {
		input.Bedtime = bed
	}
	if *wake != "" {
		input.WakeTime = wake
	}

	if err := a.coord.Prime(ctx); err != nil {
		return err
	}
	err := a.coord.Mutate(ctx, syncpkg.SleepUpdated{Date: *date, Sleep: input}, func(ctx context.Context) error {
		return a.client.PutSleep(ctx, *date, input)
	})
	a.coord.Wait()
	return err
}

func (a *app) habit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sadhana habit <add|rm|rename|list> ...")
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: sadhana habit add <label>")
		}
		habit, err := a.client.AddHabit(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("added habit %q (key %s)\n", habit.Label, habit.Key)
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: sadhana habit rm <key>")
		}
		return a.client.DeleteHabit(ctx, args[1])
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: sadhana habit rename <key> <label>")
		}
		return a.client.RenameHabit(ctx, args[1], args[2])
	case "list":
		habits, err := a.client.GetHabits(ctx)
		if err != nil {
			return err
		}
		for _, h := range habits {
			fmt.Printf("%s\t%s\n", h.Key, h.Label)
		}
		return nil
	default:
		return fmt.Errorf("unknown habit subcommand %q", args[0])
	}
}

// toggle cycles a habit's tri-state mark: no row produces true, true
// produces false, false removes the row entirely.
func (a *app) toggle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	date := fs.String("date", "", "entry date (YYYY-MM-DD)")
	habit := fs.String("habit", "", "habit key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" || *habit == "" {
		return fmt.Errorf("-date and -habit are required")
	}

	if err := a.coord.Prime(ctx); err != nil {
		return err
	}

	value, present := syncpkg.HabitState(a.coord.Entries(), *date, *habit)
	var (
		mutation syncpkg.Mutation
		write    func(ctx context.Context) error
	)
	switch {
	case !present:
		mutation = syncpkg.HabitToggled{Date: *date, Key: *habit, Value: true}
		write = func(ctx context.Context) error { return a.client.PatchHabit(ctx, *date, *habit, true) }
	case value:
		mutation = syncpkg.HabitToggled{Date: *date, Key: *habit, Value: false}
		write = func(ctx context.Context) error { return a.client.PatchHabit(ctx, *date, *habit, false) }
	default:
		mutation = syncpkg.HabitRemoved{Date: *date, Key: *habit}
		write = func(ctx context.Context) error { return a.client.DeleteHabitForDay(ctx, *date, *habit) }
	}

	err := a.coord.Mutate(ctx, mutation, write)
	a.coord.Wait()
	return err
}

func (a *app) list(ctx context.Context) error {
	if err := a.coord.Prime(ctx); err != nil {
		return err
	}
	for _, e := range a.coord.Entries() {
		fmt.Printf("%s", e.ID)
		if e.Sleep.Bedtime != nil && e.Sleep.WakeTime != nil {
			fmt.Printf("  bed %s  wake %s", *e.Sleep.Bedtime, *e.Sleep.WakeTime)
		}
		if e.Sleep.DurationMin != nil {
			fmt.Printf("  %dm", *e.Sleep.DurationMin)
		}
		for _, h := range e.Habits {
			mark := "-"
			if h.Value {
				mark = "+"
			}
			fmt.Printf("  %s%s", mark, h.Key)
		}
		fmt.Println()
	}
	return nil
}

func (a *app) stats(ctx context.Context) error {
	stats, err := a.client.GetSleepStats(ctx)
	if err != nil {
		return err
	}
	printWindow := func(name string, w domain.StatWindow) {
		dash := func(s *string) string {
			if s == nil {
				return "-"
			}
			return *s
		}
		fmt.Printf("%-6s bedtime %-6s wake %-6s sleep %s\n",
			name, dash(w.Bedtime), dash(w.WakeTime), dash(w.Duration))
	}
	printWindow("week", stats.Week)
	printWindow("month", stats.Month)
	printWindow("year", stats.Year)
	return nil
}

func (a *app) remind(ctx context.Context) error {
	notifier := notify.NewNotifier(a.cfg.NotifierURL)
	sent, err := notify.RemindIfYesterdayUnlogged(ctx, a.client, notifier)
	if err != nil {
		return err
	}
	if sent {
		fmt.Println("reminder sent")
	}
	return nil
}
