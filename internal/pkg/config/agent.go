package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Agent настройки консольного клиента курьера.
type Agent struct {
	BaseURL string
	Token   string

	ReconnectMaxAttempts     int
	ReconnectInitialInterval time.Duration
	ReconnectMaxInterval     time.Duration

	// сервер пингует канал, без пингов дольше ReadTimeout соединение считается потерянным
	ReadTimeout time.Duration
}

func LoadAgent() (*Agent, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	maxAttempts, err := osGetInt("AGENT_RECONNECT_MAX_ATTEMPTS", 10)
	collect(err)
	initialInterval, err := osGetDuration("AGENT_RECONNECT_INITIAL_INTERVAL", 500*time.Millisecond)
	collect(err)
	maxInterval, err := osGetDuration("AGENT_RECONNECT_MAX_INTERVAL", 30*time.Second)
	collect(err)
	readTimeout, err := osGetDuration("AGENT_READ_TIMEOUT", 75*time.Second)
	collect(err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("loading agent config: %w", err)
	}

	cfg := &Agent{
		BaseURL:                  osGetString("AGENT_BASE_URL", "http://localhost:8080"),
		Token:                    os.Getenv("AGENT_TOKEN"),
		ReconnectMaxAttempts:     maxAttempts,
		ReconnectInitialInterval: initialInterval,
		ReconnectMaxInterval:     maxInterval,
		ReadTimeout:              readTimeout,
	}

	if cfg.Token == "" {
		return nil, errors.New("validation: AGENT_TOKEN is required")
	}
	if cfg.ReconnectMaxAttempts <= 0 {
		return nil, errors.New("validation: AGENT_RECONNECT_MAX_ATTEMPTS must be positive")
	}
	if cfg.ReconnectInitialInterval <= 0 || cfg.ReconnectMaxInterval < cfg.ReconnectInitialInterval {
		return nil, errors.New("validation: invalid AGENT_RECONNECT interval settings")
	}
	return cfg, nil
}
