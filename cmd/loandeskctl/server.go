package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/authenticator/authn"
	"github.com/loandesk/loandesk/pkg/authenticator/bootstrap"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/logger"
	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/endpoints"
	"github.com/loandesk/loandesk/pkg/token"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the loandesk application server",
	Long: `Run the loandesk application server.

The server requires JWT_SECRET and, with the default postgres store,
DATABASE_URL. Other settings are read from the configuration file and
environment (see "loandeskctl configuration show").

By default, database migrations are run on startup. Use --no-migrate to skip.
Sending SIGHUP reloads the configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		applyLogging(cfg)
		log := logger.Default().WithFields(map[string]string{"component": "server"})

		storeKind, _ := cmd.Flags().GetString("store")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if storeKind != storeMemory && !noMigrate {
			log.Info().Msg("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		stores, err := openStores(storeKind)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to open store:", err)
			os.Exit(1)
		}

		issuer, err := token.NewIssuer([]byte(cfg.JWTSecret), token.WithTTL(cfg.TokenLifetime()))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create token issuer:", err)
			os.Exit(1)
		}

		registry, err := newRegistry(stores, cfg.Authenticators)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid authenticators:", err)
			os.Exit(1)
		}
		apply := func(cfg *config.Config) {
			applyLogging(cfg)
			applyAuthenticators(registry, cfg)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(stores, issuer, authz.MustNew(), registry, host, port)
		endpoints.RegisterAll(s)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go reloadOnHangup(ctx, apply)
		if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
			go func() {
				if err := config.Watch(ctx, apply); err != nil {
					log.Error(err).Msg("config watcher stopped")
				}
			}()
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", s.Addr()).Str("store", storeKind).
				Strs("authenticators", registry.Enabled()).Msg("server listening")
			errCh <- s.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Fatal(err, "server failed")
			}
		case <-ctx.Done():
			log.Infof("shutting down, draining requests for up to %s", shutdownTimeout)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(err).Msg("shutdown failed")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().String("store", storePostgres, "storage backend (postgres or memory)")
	serverCmd.Flags().Bool("watch-config", false, "reload the configuration when the config file changes")
}

// newRegistry registers the login authenticators and enables the named
// ones. The bootstrap authenticator is consulted first so the configured
// super-admin can log in before the account exists.
func newRegistry(stores server.Stores, enabled []string) (*authenticator.Registry, error) {
	registry := authenticator.NewRegistry()

	boot := bootstrap.New(stores.Identities, func() bootstrap.Credentials {
		cfg := config.Get()
		return bootstrap.Credentials{Email: cfg.SuperAdminEmail, Password: cfg.SuperAdminPassword}
	}, bcryptCost)
	registry.Register(boot)
	registry.Register(authn.New(stores.Identities))
	if err := registry.Configure(enabled); err != nil {
		return nil, err
	}
	return registry, nil
}

func applyAuthenticators(registry *authenticator.Registry, cfg *config.Config) {
	if err := registry.Configure(cfg.Authenticators); err != nil {
		logger.Default().Warn().Err(err).Msg("keeping previous authenticators")
	}
}

func bcryptCost() int {
	return config.Get().BcryptCost
}

func applyLogging(cfg *config.Config) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Default().Warnf("ignoring invalid log level %q", cfg.LogLevel)
		return
	}
	logger.SetDefault(logger.NewFormat(os.Stderr, cfg.LogFormat).WithLevel(level))
}

func reloadOnHangup(ctx context.Context, apply func(*config.Config)) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(); err != nil {
				logger.Default().Error(err).Msg("configuration reload failed")
				continue
			}
			apply(config.Get())
			logger.Default().Info().Msg("configuration reloaded")
		}
	}
}
