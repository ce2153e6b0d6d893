package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogotex/blog/internal/bootstrap"
	"github.com/gogotex/blog/internal/config"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/pkg/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// app carries the state shared by every subcommand.
type app struct {
	cfgFile string
	dir     string
	output  string

	cfg *config.Config
	src *bootstrap.Source
	rdb *redis.Client
	svc service.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Query and export blog posts",
		Long: `blogctl reads posts from the configured source (a directory, MinIO or
MongoDB) and lists, searches or exports them. Configuration comes from the
environment, an optional .env file and --config.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (same keys as the environment)")
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "read posts from this directory instead of the configured source")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")

	root.AddCommand(
		a.listCmd(),
		a.idsCmd(),
		a.showCmd(),
		a.searchCmd(),
		a.tagsCmd(),
		a.exportCmd(),
		a.pushCmd(),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
	if a.cfgFile != "" {
		if err := os.Setenv("BLOG_CONFIG", a.cfgFile); err != nil {
			return err
		}
	}
	if a.dir != "" {
		if err := os.Setenv("POSTS_SOURCE", config.SourceDir); err != nil {
			return err
		}
		if err := os.Setenv("POSTS_DIR", a.dir); err != nil {
			return err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.SetOutput(cmd.ErrOrStderr())
	logger.Init(cfg.Log.Level)
	if err := logger.SetFormat(cfg.Log.Format); err != nil {
		return err
	}

	ctx := cmd.Context()
	if a.src, err = bootstrap.OpenSource(ctx, cfg); err != nil {
		return err
	}
	a.rdb = bootstrap.OpenRedis(ctx, cfg)
	a.svc = bootstrap.NewService(cfg, a.src.Loader, a.rdb)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.src != nil {
		return a.src.Close(ctx)
	}
	return nil
}

// print writes v as JSON or YAML, or calls text for the default format.
func (a *app) print(w io.Writer, v any, text func() error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	}
	return text()
}
