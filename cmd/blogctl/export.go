package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gogotex/blog/internal/bootstrap"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/site"
	"github.com/gogotex/blog/pkg/logger"
)

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the listing and every post as static HTML",
		Long: `export renders index.html, 404.html and posts/<id>/index.html into <dir>,
using the same templates as the server. Existing files are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := site.New(bootstrap.SiteMeta(a.cfg), site.StaticLinks)
			if err != nil {
				return err
			}
			n, err := exportSite(cmd.Context(), a.svc, r, afero.NewOsFs(), args[0], a.cfg.Posts.Featured)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d posts to %s\n", n, args[0])
			return nil
		},
	}
}

// exportSite writes the static site under out and returns the number of post
// pages written.
func exportSite(ctx context.Context, svc service.Service, r *site.Renderer, fs afero.Fs, out string, featured int) (int, error) {
	posts, err := svc.List(ctx)
	if err != nil {
		return 0, err
	}
	feat, err := svc.Featured(ctx, featured)
	if err != nil {
		return 0, err
	}
	tags, err := svc.Tags(ctx)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := r.Index(&buf, site.IndexPage{Posts: posts, Featured: feat, Tags: tags}); err != nil {
		return 0, err
	}
	if err := writeFile(fs, filepath.Join(out, "index.html"), buf.Bytes()); err != nil {
		return 0, err
	}

	buf.Reset()
	if err := r.NotFound(&buf, ""); err != nil {
		return 0, err
	}
	if err := writeFile(fs, filepath.Join(out, "404.html"), buf.Bytes()); err != nil {
		return 0, err
	}

	for _, p := range posts {
		full, html, err := svc.Render(ctx, p.ID)
		if err != nil {
			return 0, err
		}
		related, err := svc.Related(ctx, p.ID)
		if err != nil {
			logger.Warnf("related posts for %s: %v", p.ID, err)
		}
		buf.Reset()
		if err := r.Post(&buf, site.PostPage{Post: full, HTML: html, Related: related}); err != nil {
			return 0, err
		}
		if err := writeFile(fs, filepath.Join(out, "posts", p.ID, "index.html"), buf.Bytes()); err != nil {
			return 0, err
		}
		logger.Debugf("exported %s", p.ID)
	}
	return len(posts), nil
}

func writeFile(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
