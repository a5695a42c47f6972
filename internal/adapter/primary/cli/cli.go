package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"clock-radio/internal/config"
	"clock-radio/internal/logging"
)

var (
	cfgPath   string
	envFile   string
	verbosity int

	// settings is filled by the root command before any subcommand runs.
	settings config.Settings
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clock-radio",
		Short:        "タイムテーブルに従って再生するクロックラジオ",
		Long:         "MPDを操作するクロックラジオデーモン + Web UI + CLI",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "設定ファイルのパス (既定: $CLOCKRADIO_CONFIG または ~/.config/clock-radio/config.json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "読み込む .env ファイル")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "ロギングを詳細化 (-v, -vv, ... 最大4回)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.SetVerbosity(verbosity)
		s, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cfgPath != "" {
			s.DocumentPath = cfgPath
		}
		settings = s
		return nil
	}

	cmd.AddCommand(
		newDaemonCmd(),
		newWebCmd(),
		newServeCmd(),
		newConfigCmd(),
		newPlaylistCmd(),
		newResolveCmd(),
		newShellCmd(),
	)

	return cmd
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Cobraサブコマンドを対話的に叩けるシェルを起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "radio> ", "シェルのプロンプト文字列")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "clock-radio-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("対話型シェルを開始します。'help' で使い方、'exit' で終了。")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("すでにシェル内です。他のコマンドを入力するか 'exit' で終了してください。")
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(tokens); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "指定レベル(error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "現在のレベルを表示")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`利用可能な入力例:
  daemon                          # 再生ループを起動
  web --addr 0.0.0.0:8080         # Web UIを起動
  serve --addr 0.0.0.0:8080       # Web UI + 再生ループを起動
  config get --yaml               # 設定を確認
  config set --profile Holidays   # プロファイルを切り替え
  playlist list                   # プレイリスト一覧
  playlist add Morning song.mp3   # 曲を追加
  resolve --at "2026-01-05 07:05:00"  # 指定時刻のウィンドウを確認
  log -vv                         # ログ出力を詳細化
  log --show                      # 現在のログレベルを確認
  exit / quit                     # シェル終了`)
}
