// oop-viewer builds a class-inheritance graph from Python sources.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scott-clare1/oop-viewer/internal/config"
	"github.com/scott-clare1/oop-viewer/internal/dot"
	"github.com/scott-clare1/oop-viewer/internal/pipeline"
	"github.com/scott-clare1/oop-viewer/internal/server"
	"github.com/scott-clare1/oop-viewer/internal/toon"
)

var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds flag values shared by the root and serve commands.
type options struct {
	configPath string
	format     string
	policy     string
	parser     string
	workers    int
	verbose    bool
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "oop-viewer <path> [class]",
		Short: "Build a class-inheritance graph from Python sources",
		Long: `Scan a Python file or directory for class declarations and print the
inheritance graph. With a class name, only that class's subtree is kept.`,
		Version:       version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(stderr, opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, anchor := splitArgs(args)
			cfg, err := loadConfig(cmd, opts, target)
			if err != nil {
				return err
			}
			res, err := pipeline.Build(cmd.Context(), target, anchor, cfg)
			if err != nil {
				return err
			}
			return writeGraph(stdout, cfg.Format, res)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: <path>/"+config.FileName+")")
	pf.StringVar(&opts.policy, "policy", "", "subgraph filter policy: descendants or direct")
	pf.StringVar(&opts.parser, "parser", "", "per-file extractor: heuristic or tree-sitter")
	pf.IntVarP(&opts.workers, "workers", "w", 0, "parallel file workers (0 = GOMAXPROCS)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&opts.format, "format", "f", "", "output format: toon, dot or json")

	root.AddCommand(newServeCmd(opts, stderr), newInitCmd(stdout, stderr))
	return root
}

func newServeCmd(opts *options, stderr io.Writer) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <path> [class]",
		Short: "Build the graph once and serve it over HTTP",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, anchor := splitArgs(args)
			cfg, err := loadConfig(cmd, opts, target)
			if err != nil {
				return err
			}
			res, err := pipeline.Build(cmd.Context(), target, anchor, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, res, stderr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, addr string, res *pipeline.Result, stderr io.Writer) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(res),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	_, _ = fmt.Fprintf(stderr, "serving %d classes on %s\n", res.Graph.NodeCount(), addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Debug("server stopped")
	return nil
}

func splitArgs(args []string) (target, anchor string) {
	target = args[0]
	if len(args) > 1 {
		anchor = args[1]
	}
	return target, anchor
}

// loadConfig reads the config file for target and applies flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts *options, target string) (config.Config, error) {
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}

	cfg, err := config.Load(opts.configPath, dir)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Policy = opts.policy
	}
	if flags.Changed("parser") {
		cfg.Parser = opts.parser
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func writeGraph(w io.Writer, format string, res *pipeline.Result) error {
	switch format {
	case config.FormatDOT:
		return dot.Write(w, res.Graph)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Graph.ToSerializable(res.Anchor, res.Ranks))
	default:
		_, err := fmt.Fprintln(w, toon.Encode(&toon.Document{
			Root:   res.Root,
			Anchor: res.Anchor,
			Graph:  res.Graph,
			Ranks:  res.Ranks,
		}))
		return err
	}
}

func setupLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
