package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clock-radio/internal/domain"
)

func newResolveCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "指定時刻に有効なタイムスロットを表示（再生はしない）",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseInstant(at)
			if err != nil {
				return err
			}
			_, cfg, err := loadDocument()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			profile, ok := cfg.CurrentProfile()
			if !ok {
				fmt.Fprintf(out, "%s: profile %q not found\n", now.Format(time.DateTime), cfg.CurrentProfileName)
				return nil
			}
			w, ok := domain.Resolve(profile.Timetable, now)
			if !ok {
				fmt.Fprintf(out, "%s [%s]: no window\n", now.Format(time.DateTime), cfg.CurrentProfileName)
				return nil
			}
			fmt.Fprintf(out, "%s [%s]: slot #%d playlist=%q progress=%.3f fade=%.3f volume=%d\n",
				now.Format(time.DateTime), cfg.CurrentProfileName,
				w.Index, w.Slot.PlaylistName, w.Progress, w.Fade, w.Volume())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `評価する時刻 ("2006-01-02 15:04:05" またはRFC3339)。未指定なら現在時刻`)
	return cmd
}

func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Now().In(settings.Location), nil
	}
	if t, err := time.ParseInLocation(time.DateTime, s, settings.Location); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %q is neither %q nor RFC3339", s, time.DateTime)
	}
	return t.In(settings.Location), nil
}
