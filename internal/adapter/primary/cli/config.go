package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clock-radio/internal/adapter/secondary/repository"
	"clock-radio/internal/domain"
)

func loadDocument() (*repository.FileRepository, domain.Config, error) {
	repo, err := repository.NewFileRepository(settings.DocumentPath)
	if err != nil {
		return nil, domain.Config{}, err
	}
	cfg, err := repo.Load()
	if err != nil {
		return nil, domain.Config{}, err
	}
	return repo, cfg, nil
}

// offlineEditNotice goes with every offline edit: a running daemon keeps its own copy in
// memory and writes it back on its next save.
const offlineEditNotice = "起動中のデーモンがある場合、この変更はデーモンの次回保存で上書きされます。デーモン停止中に編集するか、Web UIを使ってください"

// editDocument applies fn to the stored configuration and saves it.
func editDocument(fn func(*domain.Config) error) (domain.Config, error) {
	repo, cfg, err := loadDocument()
	if err != nil {
		return domain.Config{}, err
	}
	if err := fn(&cfg); err != nil {
		return domain.Config{}, err
	}
	if err := repo.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定の取得・更新を行うサブコマンド",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "現在の設定を表示 (JSON または YAML)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadDocument()
			if err != nil {
				return err
			}
			doc := repository.FromDomain(cfg)

			var out []byte
			if asYAML {
				out, err = yaml.Marshal(doc)
			} else {
				out, err = json.MarshalIndent(doc, "", "  ")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "YAMLで出力")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	var (
		profile string
		snooze  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "プロファイルやスヌーズ時間を書き換え",
		RunE: func(cmd *cobra.Command, args []string) error {
			changedProfile := cmd.Flags().Changed("profile")
			changedSnooze := cmd.Flags().Changed("snooze")
			if !changedProfile && !changedSnooze {
				return errors.New("--profile か --snooze を指定してください")
			}
			cfg, err := editDocument(func(c *domain.Config) error {
				if changedProfile {
					if err := c.SwitchProfile(profile); err != nil {
						return err
					}
				}
				if changedSnooze {
					return c.SetSnoozeDuration(snooze)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "保存しました: profile=%s snooze=%s\n", cfg.CurrentProfileName, cfg.SnoozeDuration)
			fmt.Fprintln(cmd.OutOrStdout(), offlineEditNotice)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "使用するプロファイル名")
	cmd.Flags().DurationVar(&snooze, "snooze", 0, "スヌーズ時間 例:10m,90s")
	return cmd
}
