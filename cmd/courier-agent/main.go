package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	stdlog "log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"courier-dispatch/internal/client/courierapi"
	"courier-dispatch/internal/client/courierchannel"
	"courier-dispatch/internal/pkg/config"
	"courier-dispatch/pkg/logger"
	"courier-dispatch/pkg/logger/zap_adapter"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	startCode := pflag.String("start-code", "", "start the session with this code before connecting")
	pflag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		stdlog.Fatalf("failed to load .env file: %v", err)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	var log logger.Logger = zapLogger

	cfg, err := config.LoadAgent()
	if err != nil {
		log.Error("load config", logger.NewField("error", err))
		return
	}

	if err := run(context.Background(), log, cfg, *startCode); err != nil {
		log.Error("courier agent failed", logger.NewField("error", err))
	}
}

func run(ctx context.Context, log logger.Logger, cfg *config.Agent, startCode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	channelURL, err := channelURL(cfg.BaseURL)
	if err != nil {
		return err
	}

	api := courierapi.New(cfg.BaseURL, cfg.Token)
	if startCode != "" {
		session, err := api.StartSession(ctx, startCode)
		if err != nil {
			return err
		}
		log.Info("session started", logger.NewField("state", session.State))
	}

	agentLog := log.With(logger.NewField("channel", channelURL))
	manager := courierchannel.New(
		agentLog,
		courierchannel.Config{
			URL:             channelURL,
			Token:           cfg.Token,
			MaxAttempts:     uint64(cfg.ReconnectMaxAttempts),
			InitialInterval: cfg.ReconnectInitialInterval,
			MaxInterval:     cfg.ReconnectMaxInterval,
			ReadTimeout:     cfg.ReadTimeout,
		},
		newPrinter(agentLog),
		newResync(agentLog, api),
	)

	input := bufio.NewScanner(os.Stdin)
	for {
		err := manager.Run(ctx)
		if err == nil || !errors.Is(err, courierchannel.ErrRetriesExhausted) {
			return err
		}

		// терминальное состояние: дальше только по команде курьера
		agentLog.Warn("channel disconnected, press Enter to reconnect", logger.NewField("error", err))
		if !input.Scan() {
			return err
		}
	}
}

// channelURL http(s)://host -> ws(s)://host/channel
func channelURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse AGENT_BASE_URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("AGENT_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/channel"
	return u.String(), nil
}
