package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denizhukuk/lawsite/internal/config"
	"github.com/denizhukuk/lawsite/internal/content"
	"github.com/denizhukuk/lawsite/internal/database"
	"github.com/denizhukuk/lawsite/internal/logging"
	"github.com/denizhukuk/lawsite/internal/maintenance"
	"github.com/denizhukuk/lawsite/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	port         int
	bind         string
	allowSubnet  string
	deletePolicy string
	corsOrigins  []string
	logFile      string
	verbosity    int

	// Timeout flags (advanced)
	readTimeout     time.Duration
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lawsite",
		Short:        "Lawsite - law firm website backend",
		Long:         `Lawsite serves the JSON API behind a law firm website: practice areas, lawyer profiles, case outcomes, testimonials and contact messages.`,
		SilenceUsage: true,
		RunE:         run,
	}

	defaults := config.DefaultTimeoutConfig()

	// Flags
	rootCmd.Flags().IntVarP(&port, "port", "p", 8000, "HTTP server port")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (e.g., 127.0.0.1, 0.0.0.0)")
	rootCmd.Flags().StringVarP(&allowSubnet, "allow-subnet", "a", "", "CIDR subnet allowed to connect (e.g., 192.168.1.0/24)")
	rootCmd.Flags().StringVar(&deletePolicy, "delete-policy", string(content.Restrict), "How deletes treat dependent records: restrict, cascade or nullify")
	rootCmd.Flags().StringArrayVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable, default *)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (default: next to the SQLite database)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	// Advanced timeout flags
	rootCmd.Flags().DurationVar(&readTimeout, "read-timeout", defaults.Read, "Timeout for reading request headers and bodies")
	rootCmd.Flags().DurationVar(&requestTimeout, "request-timeout", defaults.Request, "Timeout for handling a single request")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", defaults.Shutdown, "Grace period for in-flight requests on shutdown")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lawsite %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(migrateCmd(), vacuumCmd(), optimizeCmd(), settingsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	policy, err := content.ParseDeletePolicy(deletePolicy)
	if err != nil {
		return err
	}

	// Validate bind address if provided
	if bind != "" {
		if ip := net.ParseIP(bind); ip == nil {
			return fmt.Errorf("invalid bind address: %s", bind)
		}
	}

	// Validate and parse allow-subnet if provided
	var allowedNet *net.IPNet
	if allowSubnet != "" {
		_, parsedNet, err := net.ParseCIDR(allowSubnet)
		if err != nil {
			return fmt.Errorf("invalid allow-subnet CIDR: %s", allowSubnet)
		}
		allowedNet = parsedNet
	}

	setupConsoleLogging(verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := config.NewLoader(db)
	path := logFile
	if path == "" {
		path = logging.FilePathForDatabase(db.Location())
	}
	logging.Apply(logging.LevelForVerbosity(verbosity, loader.String("log.level", "")), loader, path)

	// Warn if binding to all interfaces without an allow list
	if (bind == "" || bind == "0.0.0.0" || bind == "::") && allowSubnet == "" {
		log.Warn().Msg("Server is accessible from all interfaces without subnet restrictions. Consider using --bind or --allow-subnet for security.")
	}

	log.Info().
		Str("version", version).
		Int("port", port).
		Str("bind", bind).
		Str("allow_subnet", allowSubnet).
		Str("database", db.Location()).
		Str("delete_policy", string(policy)).
		Msg("Starting Lawsite")

	scheduler := maintenance.NewScheduler(db)
	if started, err := scheduler.Start(loader.String("maintenance.schedule", "")); err != nil {
		log.Warn().Err(err).Msg("Failed to start maintenance scheduler")
	} else if !started {
		log.Debug().Msg("Maintenance scheduler not started (no schedule configured)")
	} else if next := scheduler.Status().NextRun; next != nil {
		log.Debug().Time("next_run", *next).Msg("Database maintenance scheduled")
	}
	defer scheduler.Stop()

	server := web.NewServer(content.New(db, policy), db, loader, web.Options{
		Port:        port,
		Bind:        bind,
		AllowedNet:  allowedNet,
		CORSOrigins: corsOrigins,
		Timeouts: config.TimeoutConfig{
			Read:     readTimeout,
			Request:  requestTimeout,
			Shutdown: shutdownTimeout,
		},
	})

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("Lawsite stopped")
	return nil
}

// openDatabase connects to DATABASE_URL, brings the schema up to date and
// seeds missing settings.
func openDatabase(ctx context.Context) (*database.DB, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, env.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := db.InitializeDefaults(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}
	return db, nil
}

// withDatabase runs fn against a freshly opened database for one-shot commands.
func withDatabase(fn func(ctx context.Context, db *database.DB) error) error {
	setupConsoleLogging(verbosity)

	ctx := context.Background()
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				version, err := db.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				log.Info().Str("database", db.Location()).Int("version", version).Msg("Database schema is up to date")
				return nil
			})
		},
	}
}

func vacuumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Reclaim unused database space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				return db.Vacuum(ctx)
			})
		},
	}
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Refresh query planner statistics now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				return maintenance.NewScheduler(db).RunNow(ctx)
			})
		},
	}
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change runtime settings",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				settings, err := db.ListSettings(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(settings)
				}
				for _, s := range settings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", s.Key, s.Value)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Print settings as JSON")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				value, err := db.GetSetting(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("setting key must not be empty")
			}
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				if err := db.SetSetting(ctx, key, args[1]); err != nil {
					return err
				}
				log.Info().Str("key", key).Msg("Setting updated")
				return nil
			})
		},
	}

	cmd.AddCommand(list, get, set)
	return cmd
}

// setupConsoleLogging installs a console logger until settings are readable.
func setupConsoleLogging(verbosity int) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}

	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default: // 2+
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
