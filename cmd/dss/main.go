// Command dss is the terminal dashboard client for the CryptoDSS trading
// API: sign in, browse the admin views, run signal analyses and backtests.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	clientconfig "github.com/refi-rr/crypto-dss/internal/client/config"
	"github.com/refi-rr/crypto-dss/internal/client/gateway"
	"github.com/refi-rr/crypto-dss/internal/client/router"
	"github.com/refi-rr/crypto-dss/internal/client/session"
	"github.com/refi-rr/crypto-dss/internal/client/store"
	"github.com/refi-rr/crypto-dss/internal/client/view"
	"github.com/refi-rr/crypto-dss/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := clientconfig.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	if err := newApp(cfg, log).run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the composition root: every component is built here and passed by
// reference, no ambient globals.
type app struct {
	store  *store.Store
	bus    *bus.Bus
	gw     *gateway.Gateway
	sess   *session.Session
	router *router.Router
	target *view.Target

	trader   *view.TraderInsight
	backtest *view.Backtest
}

func newApp(cfg *clientconfig.Config, log zerolog.Logger) *app {
	a := &app{
		store:  store.New(cfg.StateFile),
		bus:    bus.New(),
		target: view.NewTarget(os.Stdout),
	}
	a.gw = gateway.New(cfg.APIBaseURL, a.store, a.bus, log, nil)
	a.sess = session.New(a.gw, a.store, a.bus, log)
	a.router = router.New(router.NewRegistry(), a.sess, a.bus, log, func(msg string) {
		fmt.Println("! " + msg)
	})

	a.registerRoutes()
	a.router.Init(a.target)
	return a
}

func (a *app) registerRoutes() {
	a.router.Register("login", router.Descriptor{Title: "Login"})
	a.router.Register("trader-insight", router.Descriptor{Title: "Trader Insight", RequireAuth: true})
	a.router.Register("backtest", router.Descriptor{Title: "Backtesting", RequireAuth: true})
	a.router.Register("dashboard", router.Descriptor{Title: "Dashboard", RequireAuth: true, RequireAdmin: true})
	a.router.Register("members", router.Descriptor{Title: "Members", RequireAuth: true, RequireAdmin: true})
	a.router.Register("analytics", router.Descriptor{Title: "Analytics", RequireAuth: true, RequireAdmin: true})

	a.router.Mount("login", func() (view.View, error) { return view.NewLogin(), nil })
	a.router.Mount("trader-insight", func() (view.View, error) {
		a.trader = view.NewTraderInsight(a.gw, a.sess)
		return a.trader, nil
	})
	a.router.Mount("backtest", func() (view.View, error) {
		a.backtest = view.NewBacktest(a.gw, a.sess)
		return a.backtest, nil
	})
	a.router.Mount("dashboard", func() (view.View, error) { return view.NewDashboard(a.gw), nil })
	a.router.Mount("members", func() (view.View, error) { return view.NewMembers(a.gw), nil })
	a.router.Mount("analytics", func() (view.View, error) { return view.NewAnalytics(a.gw), nil })
}

func (a *app) run(ctx context.Context) error {
	if a.sess.Init(ctx) {
		_ = a.router.NavigateTo(ctx, router.DefaultRoute(a.sess.User()), true)
	} else {
		_ = a.router.NavigateTo(ctx, router.RouteLogin, true)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("\n%s> ", a.prompt())
		if !scanner.Scan() {
			return scanner.Err()
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		if err := a.dispatch(ctx, args); err != nil {
			fmt.Println("! " + err.Error())
		}
	}
}

func (a *app) prompt() string {
	if u := a.sess.User(); u != nil {
		return u.Username + "@" + a.router.CurrentRoute()
	}
	return a.router.CurrentRoute()
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		fmt.Println("commands: go back forward refresh login logout forgot analyze outcome backtest member theme quit")
		return nil

	case "go":
		if len(args) != 2 {
			return fmt.Errorf("usage: go <route>")
		}
		return a.router.NavigateTo(ctx, args[1], true)

	case "back":
		return a.router.Back(ctx)

	case "forward":
		return a.router.Forward(ctx)

	case "refresh":
		if cur := a.router.CurrentRoute(); cur != "" {
			return a.router.NavigateTo(ctx, cur, false)
		}
		return nil

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		// the login broadcast navigates to the role default route
		_, err := a.sess.Login(ctx, args[1], args[2])
		return err

	case "logout":
		a.sess.Logout()
		return nil

	case "forgot":
		if len(args) != 2 {
			return fmt.Errorf("usage: forgot <email>")
		}
		if err := a.gw.ForgotPassword(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("password reset requested, check your email")
		return nil

	case "theme":
		if len(args) != 2 || (args[1] != store.ThemeDark && args[1] != store.ThemeLight) {
			return fmt.Errorf("usage: theme dark|light")
		}
		return a.store.SetTheme(args[1])

	case "analyze":
		return a.analyze(ctx, args[1:])

	case "outcome":
		return a.outcome(ctx, args[1:])

	case "backtest":
		return a.runBacktest(ctx, args[1:])

	case "member":
		return a.member(ctx, args[1:])

	default:
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
}

func (a *app) analyze(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: analyze <pair> <timeframe>")
	}
	if a.trader == nil {
		return fmt.Errorf("open trader-insight first: go trader-insight")
	}
	if !a.sess.CheckSubscription() {
		return fmt.Errorf("subscription required")
	}

	res, err := a.gw.Analyze(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	a.trader.RenderAnalysis(a.target.NextHandle(), args[0], args[1], res)
	return nil
}

func (a *app) outcome(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: outcome <signal-id> win|loss <pnl%%>")
	}
	pnl, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid pnl: %w", err)
	}
	if err := a.gw.ReportOutcome(ctx, args[0], args[1], pnl); err != nil {
		return err
	}
	fmt.Println("outcome recorded")
	return nil
}

func (a *app) runBacktest(ctx context.Context, args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("usage: backtest <pair> <timeframe> <start> <end> <capital>")
	}
	if a.backtest == nil {
		return fmt.Errorf("open backtest first: go backtest")
	}
	capital, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		return fmt.Errorf("invalid capital: %w", err)
	}

	fmt.Println("running backtest, this may take a minute...")
	res, err := a.gw.Backtest(ctx, gateway.BacktestInput{
		Pair:           args[0],
		Timeframe:      args[1],
		StartDate:      args[2],
		EndDate:        args[3],
		InitialCapital: capital,
	})
	if err != nil {
		return err
	}
	a.backtest.RenderResult(a.target.NextHandle(), res)
	return nil
}

func (a *app) member(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: member add|set|rm ...")
	}

	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: member add <username> <email> <password> [days]")
		}
		in := gateway.RegisterInput{Username: args[1], Email: args[2], Password: args[3], SubscriptionDays: 30}
		if len(args) == 5 {
			days, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("invalid days: %w", err)
			}
			in.SubscriptionDays = days
		}
		if err := a.gw.Register(ctx, in); err != nil {
			return err
		}

	case "set":
		if len(args) != 4 {
			return fmt.Errorf("usage: member set <id> role|status|email|days <value>")
		}
		var update gateway.UserUpdate
		switch args[2] {
		case "role":
			update.Role = args[3]
		case "status":
			update.Status = args[3]
		case "email":
			update.Email = args[3]
		case "days":
			days, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid days: %w", err)
			}
			update.SubscriptionDays = days
		default:
			return fmt.Errorf("unknown field %q", args[2])
		}
		if err := a.gw.UpdateUser(ctx, args[1], update); err != nil {
			return err
		}

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: member rm <id>")
		}
		if err := a.gw.DeleteUser(ctx, args[1]); err != nil {
			return err
		}

	default:
		return fmt.Errorf("usage: member add|set|rm ...")
	}

	// re-render the table after a mutation
	if a.router.CurrentRoute() == "members" {
		return a.router.NavigateTo(ctx, "members", false)
	}
	return nil
}
