package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"
	"github.com/sayddii/TwitchNotify/config"
	"github.com/sayddii/TwitchNotify/logger"
	"github.com/sayddii/TwitchNotify/metrics"
	"github.com/sayddii/TwitchNotify/notifier"
	"github.com/sayddii/TwitchNotify/platforms/twitch"
	"github.com/sayddii/TwitchNotify/server"
	"github.com/sayddii/TwitchNotify/tracker"
	"github.com/sayddii/TwitchNotify/util"
)

func init() {
	loc, err := time.LoadLocation("UTC")
	if err != nil {
		logger.Fatalf("%s", err)
	}
	time.Local = loc
}

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatalf("Configuration error: %s", err)
	}

	logger.SetFormat(cfg.Notifier.LogFormat)
	if cfg.Notifier.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	m := metrics.New()

	platform, err := twitch.New(cfg, twitch.Options{Clock: clock})
	if err != nil {
		logger.Fatalf("%s", err)
	}

	telegram := notifier.NewTelegram(cfg, "")
	if name, err := telegram.Self(); err != nil {
		logger.Warnf("Unable to verify the Telegram bot token, will try anyway: %s", err)
	} else {
		logger.Infof("Authorized on Telegram account %s", name)
	}

	opts := tracker.Options{
		Interval: cfg.Notifier.PollInterval,
		Metrics:  m,
		Clock:    clock,
	}

	if cfg.NATS.Host != "" {
		pub, err := notifier.NewNATSPublisher(cfg)
		if err != nil {
			logger.Fatalf("%s", err)
		}
		defer pub.Close()
		opts.Publishers = append(opts.Publishers, pub)
	}

	if cfg.Plugins.Enabled {
		plugin, err := util.LoadPlugin(cfg.Plugins.PathToPlugin)
		if err != nil {
			logger.Fatalf("%s", err)
		}
		defer plugin.Close()
		opts.Hooks = plugin
	}

	keepAlive, err := util.NewKeepAlive(cfg, clock)
	if err != nil {
		logger.Fatalf("%s", err)
	}

	var wg sync.WaitGroup

	health := server.New("health", net.JoinHostPort("0.0.0.0", cfg.Port), server.HealthHandler())
	healthLn, err := health.Listen()
	if err != nil {
		logger.Fatalf("%s", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := health.Serve(ctx, healthLn); err != nil {
			logger.Errorf("Health server error: %s", err)
		}
	}()

	if cfg.Metrics.Addr != "" {
		metricsSrv := server.New("metrics", cfg.Metrics.Addr, server.MetricsHandler(m.Registry))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metricsSrv.Run(ctx); err != nil {
				logger.Errorf("Metrics server error: %s", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		keepAlive.Run(ctx)
	}()

	logger.Infof("🔔 Twitch Stream Notifier Started")
	tracker.New(platform, telegram, opts).Run(ctx)

	stop()
	wg.Wait()
}
