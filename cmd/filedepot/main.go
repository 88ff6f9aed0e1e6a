package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"filedepot/internal/catalog"
	"filedepot/internal/config"
	"filedepot/internal/database"
	"filedepot/internal/tokens"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "filedepot: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "filedepot",
		Short:        "filedepot operations CLI",
		Long:         `filedepot CLI runs the API server and worker binaries and inspects the backing stores.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newStatusCmd(),
		newStatsCmd(),
	)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server (go run ./cmd/server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "go", append([]string{"run", "./cmd/server"}, args...)...)
		},
	}
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background worker (go run ./cmd/worker)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "go", append([]string{"run", "./cmd/worker"}, args...)...)
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Ping postgres and redis and print their health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dbUp := false
			if pool, err := database.Connect(ctx, cfg.DatabaseURL()); err == nil {
				dbUp = catalog.NewStore(pool).Ping(ctx) == nil
				pool.Close()
			}

			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr(),
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer rdb.Close()
			redisUp := tokens.NewStore(rdb).Ping(ctx) == nil

			return printJSON(map[string]bool{"redis": redisUp, "db": dbUp})
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print user and file counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pool, err := database.Connect(ctx, cfg.DatabaseURL())
			if err != nil {
				return err
			}
			defer pool.Close()

			store := catalog.NewStore(pool)
			users, err := store.CountUsers(ctx)
			if err != nil {
				return err
			}
			files, err := store.CountFiles(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]int64{"users": users, "files": files})
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	execCmd := exec.CommandContext(ctx, name, args...)
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	execCmd.Stdin = os.Stdin
	return execCmd.Run()
}
