package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clock-radio/internal/domain"
)

func newPlaylistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "プレイリストを編集するサブコマンド",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "プレイリストと曲を一覧表示",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, cfg, err := loadDocument()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, name := range cfg.PlaylistNames() {
					items := cfg.Playlists[name].Items
					fmt.Fprintf(out, "%s (%d)\n", name, len(items))
					for i, item := range items {
						fmt.Fprintf(out, "  %d. %s\n", i+1, item)
					}
				}
				return nil
			},
		},
		playlistEdit("new <name>", "空のプレイリストを作成", 1, func(c *domain.Config, a []string) error {
			return c.NewPlaylist(a[0])
		}),
		playlistEdit("rename <old> <new>", "名前を変更（参照しているタイムスロットも更新）", 2, func(c *domain.Config, a []string) error {
			return c.RenamePlaylist(a[0], a[1])
		}),
		playlistEdit("delete <name>", "プレイリストを削除", 1, func(c *domain.Config, a []string) error {
			return c.DeletePlaylist(a[0])
		}),
		playlistEdit("add <name> <item>", "曲を末尾に追加", 2, func(c *domain.Config, a []string) error {
			return c.AddItem(a[0], a[1])
		}),
		playlistEdit("remove <name> <item>", "曲を削除（最初の一致のみ）", 2, func(c *domain.Config, a []string) error {
			return c.RemoveItem(a[0], a[1])
		}),
	)
	return cmd
}

func playlistEdit(use, short string, nargs int, fn func(*domain.Config, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := editDocument(func(c *domain.Config) error { return fn(c, args) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "保存しました: playlist %s %s\n", strings.Fields(use)[0], strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), offlineEditNotice)
			return nil
		},
	}
}
