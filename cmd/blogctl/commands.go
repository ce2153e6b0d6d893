package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/search"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			for i := range posts {
				posts[i] = posts[i].Summary()
			}
			w := cmd.OutOrStdout()
			return a.print(w, posts, func() error { return writePostTable(w, posts) })
		},
	}
}

func (a *app) idsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "Print every post id, including posts that fail to parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.svc.IDs(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return a.print(w, ids, func() error { return writeLines(w, ids) })
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, body, err := a.svc.Render(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if html {
				_, err := io.WriteString(w, string(body))
				return err
			}
			return a.print(w, p, func() error {
				fmt.Fprintln(w, p.DisplayTitle())
				meta := []string{}
				if p.Date != "" {
					meta = append(meta, p.Date)
				}
				meta = append(meta, fmt.Sprintf("%d min read", p.ReadingTime))
				if len(p.Tags) > 0 {
					meta = append(meta, strings.Join(p.Tags, ", "))
				}
				fmt.Fprintln(w, strings.Join(meta, " · "))
				fmt.Fprintln(w)
				_, err := fmt.Fprintln(w, strings.TrimSpace(p.Content))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print the rendered HTML body instead")
	return cmd
}

// searchHit is the structured form of a search result.
type searchHit struct {
	post.Post `yaml:",inline"`
	Score     float64          `json:"score" yaml:"score"`
	ScoreType search.ScoreType `json:"scoreType" yaml:"scoreType"`
}

func (a *app) searchCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search posts by title, description and body",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := service.ParseMode(mode)
			if err != nil {
				return err
			}
			res, err := a.svc.Search(cmd.Context(), strings.Join(args, " "), m)
			if err != nil {
				return err
			}
			hits := make([]searchHit, len(res))
			for i, r := range res {
				hits[i] = searchHit{Post: r.Post.Summary(), Score: r.Score, ScoreType: r.ScoreType}
			}
			w := cmd.OutOrStdout()
			return a.print(w, hits, func() error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, h := range hits {
					fmt.Fprintf(tw, "%.3f\t%s\t%s\n", h.Score, h.ID, h.DisplayTitle())
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(service.ModeFuzzy), "search mode: fuzzy or fulltext")
	return cmd
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List distinct tags in first-seen order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.svc.Tags(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return a.print(w, tags, func() error { return writeLines(w, tags) })
		},
	}
}

func writePostTable(w io.Writer, posts []post.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Date, p.DisplayTitle())
	}
	return tw.Flush()
}

func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
