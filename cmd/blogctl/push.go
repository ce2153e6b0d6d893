package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/source"
)

func (a *app) pushCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "push <dir>",
		Short: "Upload a local directory of posts to the configured MinIO or MongoDB source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.src.Saver == nil {
				return errors.New("push needs a minio or mongo posts source")
			}
			raws, err := source.NewOSDir(args[0]).Load(cmd.Context())
			if err != nil {
				return err
			}
			if check {
				for _, r := range raws {
					if _, err := post.Parse(r.ID, r.Text); err != nil {
						return err
					}
				}
			}
			if err := a.src.Saver.Save(cmd.Context(), raws); err != nil {
				return err
			}
			n, err := a.svc.Reload(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d posts; source now holds %d\n", len(raws), n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", true, "refuse to push when any post fails to parse")
	return cmd
}
