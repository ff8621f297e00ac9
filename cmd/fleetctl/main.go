package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/kdmobility/go-fleet-client/dashboard"
	"github.com/kdmobility/go-fleet-client/internal/config"
	"github.com/kdmobility/go-fleet-client/kvstore"
	"github.com/kdmobility/go-fleet-client/routes"
	"github.com/kdmobility/go-fleet-client/session"
	"github.com/kdmobility/go-fleet-client/transport"
	"github.com/kdmobility/go-fleet-client/vehicles"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fleetctl: %s\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     config.Config
	log     zerolog.Logger
	session *session.Manager
	client  *transport.Client
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	c := config.New()
	log := newLogger(c.GetLogLevel())

	a, err := newApp(c, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "vehicles":
		return a.listVehicles(ctx)
	case "routes":
		return a.listRoutes(ctx)
	case "stats":
		return a.stats(ctx)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newApp(c config.Config, log zerolog.Logger) (*app, error) {
	store, err := newStore(c)
	if err != nil {
		return nil, err
	}

	mgr, err := session.NewManager(store, c.GetBaseURL(), session.WithLogger(log))
	if err != nil {
		return nil, err
	}

	options := []transport.ClientOption{
		transport.WithTimeout(c.GetRequestTimeout()),
		transport.WithLogger(log),
		transport.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	}
	if rps := c.GetRateLimitRPS(); rps > 0 {
		options = append(options, transport.WithRateLimit(rate.NewLimiter(rate.Limit(rps), 1)))
	}

	client, err := transport.NewClient(c.GetBaseURL(), mgr, options...)
	if err != nil {
		return nil, err
	}

	return &app{cfg: c, log: log, session: mgr, client: client}, nil
}

func newStore(c config.Config) (kvstore.Store, error) {
	fs, err := kvstore.NewFileStore(c.GetStorePath())
	if err != nil {
		return nil, err
	}
	if key := c.GetStoreKey(); key != nil {
		return kvstore.NewSealedStore(fs, key)
	}
	return fs, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: fleetctl login <email> <password>")
	}
	displayAppname(a.cfg.GetAppName())

	sess, err := a.session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if sess.User != nil {
		fmt.Printf("logged in as %s (%s)\n", sess.User.Name, sess.User.Role)
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	user, err := a.session.FetchProfile(ctx)
	if err != nil {
		if user = a.session.StoredUser(); user == nil {
			return err
		}
		a.log.Warn().Err(err).Msg("profile fetch failed, showing stored snapshot")
	}

	fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	if exp := a.session.TokenExpiresAt(); !exp.IsZero() {
		fmt.Printf("token expires %s\n", exp.Format(time.RFC3339))
	}
	return nil
}

func (a *app) listVehicles(ctx context.Context) error {
	svc, err := vehicles.NewService(a.client)
	if err != nil {
		return err
	}
	page, err := svc.List(ctx, vehicles.ListParams{Limit: 25})
	if err != nil {
		return err
	}
	for _, v := range page.Data {
		fmt.Printf("%-12s %-20s %-12s capacity=%d\n", v.PlateNumber, v.Model, v.Status, v.Capacity)
	}
	fmt.Printf("page %d/%d, %d total\n", page.Meta.Page, page.Meta.TotalPages, page.Meta.Total)
	return nil
}

func (a *app) listRoutes(ctx context.Context) error {
	svc, err := routes.NewService(a.client)
	if err != nil {
		return err
	}
	page, err := svc.List(ctx, routes.ListParams{Limit: 25})
	if err != nil {
		return err
	}
	for _, r := range page.Data {
		fmt.Printf("%-10s %-30s %-8s %-10s stops=%d\n", r.Code, r.Name, r.Type, r.Status, len(r.Stops))
	}
	fmt.Printf("page %d/%d, %d total\n", page.Meta.Page, page.Meta.TotalPages, page.Meta.Total)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	svc, err := dashboard.NewService(a.client)
	if err != nil {
		return err
	}
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func printUsage() {
	fmt.Println(`usage: fleetctl <command>

commands:
  login <email> <password>   authenticate and persist the session
  logout                     clear the session (best-effort remote logout)
  whoami                     show the authenticated user
  vehicles                   list vehicles
  routes                     list routes
  stats                      show dashboard counters`)
}
