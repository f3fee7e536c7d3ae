// Command pushctl is the ScorePush operations CLI.
//
// Usage:
//
//	pushctl cycle run
//	pushctl cycle worker --interval 60
//	pushctl state show
//	pushctl state clear
//	pushctl subs list
//	pushctl push test
//	pushctl vapid gen
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mhenley/scorepush/internal/config"
	"github.com/mhenley/scorepush/internal/cycle"
	"github.com/mhenley/scorepush/internal/db"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/provider/espn"
	"github.com/mhenley/scorepush/internal/state"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "pushctl",
		Short: "ScorePush operations CLI",
	}

	root.AddCommand(cycleCmd())
	root.AddCommand(stateCmd())
	root.AddCommand(subsCmd())
	root.AddCommand(pushCmd())
	root.AddCommand(vapidCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// cycle command
// --------------------------------------------------------------------------

func cycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run detection cycles",
	}
	cmd.AddCommand(cycleRunCmd())
	cmd.AddCommand(cycleWorkerCmd())
	return cmd
}

func cycleRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one cycle: fetch, diff, dispatch, persist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, app *app) error {
				start := time.Now()
				report, err := app.runner.Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("Cycle finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", report.Summary())
				return nil
			})
		},
	}
}

func cycleWorkerCmd() *cobra.Command {
	var intervalSec int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run cycles on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if intervalSec <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			return runApp(func(ctx context.Context, app *app) error {
				app.runner.StartWorker(ctx, time.Duration(intervalSec)*time.Second)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&intervalSec, "interval", 60, "Seconds between cycles")
	return cmd
}

// --------------------------------------------------------------------------
// state command
// --------------------------------------------------------------------------

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the previous snapshot set",
	}
	cmd.AddCommand(stateShowCmd())
	cmd.AddCommand(stateClearCmd())
	return cmd
}

func stateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted snapshot set as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, app *app) error {
				set, err := app.state.Load(ctx)
				if err != nil {
					return fmt.Errorf("load state: %w", err)
				}
				out, err := json.MarshalIndent(set, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				logger.Info("State loaded", "matches", len(set))
				return nil
			})
		},
	}
}

func stateClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted snapshot set (next cycle runs cold)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, app *app) error {
				if err := app.state.Clear(ctx); err != nil {
					return fmt.Errorf("clear state: %w", err)
				}
				logger.Info("State cleared")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// subs command
// --------------------------------------------------------------------------

func subsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subs",
		Short: "Inspect push subscriptions",
	}
	cmd.AddCommand(subsListCmd())
	return cmd
}

func subsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered subscription endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, app *app) error {
				subs, err := app.subs.List(ctx)
				if err != nil {
					return fmt.Errorf("list subscriptions: %w", err)
				}
				for _, s := range subs {
					prefs, _ := json.Marshal(s.Prefs)
					fmt.Printf("%s\t%s\n", s.Subscription.Endpoint, prefs)
				}
				logger.Info("Subscriptions listed", "count", len(subs))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// push command
// --------------------------------------------------------------------------

func pushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push delivery tools",
	}
	cmd.AddCommand(pushTestCmd())
	return cmd
}

func pushTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test notification to every subscriber",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, app *app) error {
				if !app.cfg.PushConfigured() {
					return fmt.Errorf("VAPID keys are not configured")
				}
				res, err := app.dispatcher.DispatchAll(ctx, notifications.TestPayload(app.cfg.CopyPrefix))
				if err != nil {
					return err
				}
				logger.Info("Test push finished",
					"sent", res.Sent, "failed", res.Failed, "removed", res.Removed)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// vapid command
// --------------------------------------------------------------------------

func vapidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vapid",
		Short: "VAPID key management",
	}
	cmd.AddCommand(vapidGenCmd())
	return cmd
}

func vapidGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Generate a fresh VAPID key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			private, public, err := notifications.GenerateVAPIDKeys()
			if err != nil {
				return fmt.Errorf("generate keys: %w", err)
			}
			fmt.Printf("VAPID_PUBLIC_KEY=%s\n", public)
			fmt.Printf("VAPID_PRIVATE_KEY=%s\n", private)
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// app bundles the wired collaborators a subcommand may need.
type app struct {
	cfg        *config.Config
	pool       *db.Pool
	state      state.Store
	subs       *notifications.SubscriptionStore
	dispatcher *notifications.Dispatcher
	runner     *cycle.Runner
}

// runApp handles config loading, DB connection, store selection, and context
// cancellation.
func runApp(fn func(ctx context.Context, app *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var stateStore state.Store
	if cfg.RedisAddr != "" {
		rs, err := state.NewRedis(ctx, state.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.StateKey,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rs.Close()
		stateStore = rs
	} else {
		stateStore = state.NewPostgres(pool.Pool, cfg.StateKey)
	}

	feed := espn.NewClient(cfg.FeedBaseURL, cfg.Leagues, cfg.FeedRateLimit, logger)
	subs := notifications.NewSubscriptionStore(pool.Pool)
	sender := notifications.NewWebPushSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject, logger)
	dispatcher := notifications.NewDispatcher(subs, sender, cfg.CopyPrefix, logger)
	runner := cycle.NewRunner(feed, stateStore, dispatcher, logger)

	return fn(ctx, &app{
		cfg:        cfg,
		pool:       pool,
		state:      stateStore,
		subs:       subs,
		dispatcher: dispatcher,
		runner:     runner,
	})
}
