package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clock-radio/internal/adapter/primary/web"
	"clock-radio/internal/adapter/secondary/audio"
	"clock-radio/internal/adapter/secondary/notify"
	"clock-radio/internal/adapter/secondary/repository"
	"clock-radio/internal/config"
	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
	"clock-radio/internal/usecase"
)

// radio bundles the use case with the adapters that need closing on exit.
type radio struct {
	uc      usecase.RadioUseCase
	async   *notify.Async
	closers []io.Closer
}

func newSink(s config.Settings) domain.AudioSink {
	if s.Sink == "log" {
		return audio.LogSink{}
	}
	sink := audio.NewMPDSink(s.MPDNetwork, s.MPDAddr, s.MPDPassword)
	if err := sink.Ping(); err != nil {
		// The daemon keeps running; commands are retried on later windows.
		logging.Warnf("mpd at %s/%s not reachable yet: %v", s.MPDNetwork, s.MPDAddr, err)
	}
	return sink
}

func newPublishers(ctx context.Context, s config.Settings) (notify.Multi, []io.Closer, error) {
	var (
		pubs    notify.Multi
		closers []io.Closer
	)
	if s.MQTTBroker != "" {
		p, err := notify.NewMQTTPublisher(s.MQTTBroker, "clock-radio-"+s.InstanceID, s.MQTTTopic)
		if err != nil {
			return nil, nil, err
		}
		pubs = append(pubs, p)
		closers = append(closers, p)
	}
	if s.RedisAddr != "" {
		p, err := notify.NewRedisPublisher(ctx, notify.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Channel:  s.RedisChannel,
		})
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		pubs = append(pubs, p)
		closers = append(closers, p)
	}
	return pubs, closers, nil
}

func newRadio(ctx context.Context, s config.Settings) (*radio, error) {
	repo, err := repository.NewFileRepository(s.DocumentPath)
	if err != nil {
		return nil, err
	}
	pubs, closers, err := newPublishers(ctx, s)
	if err != nil {
		return nil, err
	}

	rd := &radio{closers: closers}
	opts := usecase.Options{Interval: s.TickInterval, Location: s.Location}
	if len(pubs) > 0 {
		rd.async = notify.NewAsync(pubs, 64)
		go rd.async.Run(ctx)
		opts.Publisher = rd.async
	}

	uc, err := usecase.NewRadioUseCase(repo, newSink(s), opts)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	rd.uc = uc
	logging.Infof("config: %s (instance %s)", repo.Path(), s.InstanceID)
	return rd, nil
}

// wait blocks until queued events are delivered, then closes the publishers.
func (r *radio) wait() {
	if r.async != nil {
		<-r.async.Done()
	}
	closeAll(r.closers)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logging.Warnf("close: %v", err)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveHTTP(ctx context.Context, srv *web.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.Start()
}

// flushEvery persists pending changes when no playback loop is running to do it.
func flushEvery(ctx context.Context, uc usecase.RadioUseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.Flush(); err != nil {
				logging.Errorf("config save failed, will retry: %v", err)
			}
		}
	}
}

func bindRuntimeFlags(cmd *cobra.Command, sink *string, tick *time.Duration) {
	cmd.Flags().StringVar(sink, "sink", "", "音声出力 (mpd|log)。未指定なら $CLOCKRADIO_SINK")
	cmd.Flags().DurationVar(tick, "tick", 0, "評価間隔 例:1s,500ms。未指定なら $CLOCKRADIO_TICK")
}

func applyRuntimeFlags(sink string, tick time.Duration) error {
	if sink != "" {
		settings.Sink = sink
	}
	if tick > 0 {
		settings.TickInterval = tick
	}
	s, err := config.Normalize(settings)
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func newDaemonCmd() *cobra.Command {
	var (
		sink string
		tick time.Duration
	)
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "再生ループのみを起動（Webサーバーなし）",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyRuntimeFlags(sink, tick); err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			rd, err := newRadio(ctx, settings)
			if err != nil {
				return err
			}
			defer rd.wait()

			fmt.Println("Clock radio daemon started")
			rd.uc.Start(ctx)

			<-ctx.Done()
			<-rd.uc.Done()
			fmt.Println("Daemon shutting down...")
			return nil
		},
	}
	bindRuntimeFlags(cmd, &sink, &tick)
	return cmd
}

func newWebCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Web UIとREST APIのみを起動（再生ループなし）",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				settings.Addr = addr
			}
			// Without a loop nothing reaches the sink, so a log sink is enough.
			settings.Sink = "log"

			ctx, stop := signalContext()
			defer stop()

			rd, err := newRadio(ctx, settings)
			if err != nil {
				return err
			}
			defer rd.wait()
			go flushEvery(ctx, rd.uc, settings.TickInterval)

			srv := web.NewServer(rd.uc, settings.Addr)
			fmt.Printf("Clock radio Web UI running at http://%s\n", settings.Addr)
			logging.Infof("Web UI: http://%s (playback loop disabled)", settings.Addr)

			err = serveHTTP(ctx, srv)
			stop()
			if ferr := rd.uc.Flush(); ferr != nil {
				err = errors.Join(err, ferr)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTPサーバーのアドレス:ポート。未指定なら $CLOCKRADIO_ADDR")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr string
		sink string
		tick time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Web UIと再生ループを両方起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				settings.Addr = addr
			}
			if err := applyRuntimeFlags(sink, tick); err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			rd, err := newRadio(ctx, settings)
			if err != nil {
				return err
			}
			defer rd.wait()

			rd.uc.Start(ctx)

			srv := web.NewServer(rd.uc, settings.Addr)
			fmt.Printf("Clock radio UI running at http://%s\n", settings.Addr)
			logging.Infof("Clock radio UI: http://%s", settings.Addr)

			err = serveHTTP(ctx, srv)
			stop()
			<-rd.uc.Done()
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTPサーバーのアドレス:ポート。未指定なら $CLOCKRADIO_ADDR")
	bindRuntimeFlags(cmd, &sink, &tick)
	return cmd
}
