package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type (
	Tasks struct {
		OfferExpiryInterval        time.Duration
		PendingRebroadcastInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter capacity
		RateLimiterBurst int           // middleware rate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		MaxConns int
		MinConns int
	}

	Storage struct {
		Driver string
	}

	Auth struct {
		JWTSecret    string
		CodeHashCost int
	}

	Dispatch struct {
		OfferTTL time.Duration
	}

	Channel struct {
		SendBuffer   int
		PingInterval time.Duration
		WriteTimeout time.Duration
	}

	Eligibility struct {
		// пустой хост - кандидаты берутся из активных смен без внешнего сервиса
		GRPCHost string
		Timeout  time.Duration
	}

	Kafka struct {
		Enabled            bool
		Brokers            string
		PlacedTopic        string
		StatusChangedTopic string
		ConsumerGroup      string
		Sarama             Sarama
		Handlers           KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderPlaced OrderPlaced
	}

	OrderPlaced struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks       Tasks
		Server      HTTPServer
		Database    Database
		Storage     Storage
		Auth        Auth
		Dispatch    Dispatch
		Channel     Channel
		Eligibility Eligibility
		Kafka       Kafka
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func (k Kafka) BrokerList() []string {
	return splitList(k.Brokers)
}

func loadFromEnv() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	offerExpiry, err := osGetDuration("BACKGROUND_OFFER_EXPIRY_INTERVAL", 5*time.Second)
	collect(err)
	rebroadcast, err := osGetDuration("BACKGROUND_PENDING_REBROADCAST_INTERVAL", 15*time.Second)
	collect(err)

	requestTimeout, err := osGetDuration("MIDDLEWARE_REQUEST_TIMEOUT", 0)
	collect(err)
	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS", 0)
	collect(err)
	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST", 0)
	collect(err)
	pprofEnabled, err := osGetBool("PPROF_ENABLED", false)
	collect(err)

	maxConns, err := osGetInt("POSTGRES_MAX_CONNS", 10)
	collect(err)
	minConns, err := osGetInt("POSTGRES_MIN_CONNS", 2)
	collect(err)

	codeHashCost, err := osGetInt("AUTH_CODE_HASH_COST", 10)
	collect(err)

	offerTTL, err := osGetDuration("DISPATCH_OFFER_TTL", 60*time.Second)
	collect(err)

	sendBuffer, err := osGetInt("CHANNEL_SEND_BUFFER", 32)
	collect(err)
	pingInterval, err := osGetDuration("CHANNEL_PING_INTERVAL", 30*time.Second)
	collect(err)
	writeTimeout, err := osGetDuration("CHANNEL_WRITE_TIMEOUT", 10*time.Second)
	collect(err)

	eligibilityTimeout, err := osGetDuration("ELIGIBILITY_TIMEOUT", 2*time.Second)
	collect(err)

	kafkaEnabled, err := osGetBool("KAFKA_ENABLED", false)
	collect(err)
	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT", true)
	collect(err)
	orderPlacedTimeout, err := osGetDuration("KAFKA_HANDLER_ORDER_PLACED_PROCESS_TIMEOUT", 5*time.Second)
	collect(err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks: Tasks{
			OfferExpiryInterval:        offerExpiry,
			PendingRebroadcastInterval: rebroadcast,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Storage: Storage{
			Driver: osGetString("STORAGE_DRIVER", StorageDriverPostgres),
		},
		Auth: Auth{
			JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
			CodeHashCost: codeHashCost,
		},
		Dispatch: Dispatch{
			OfferTTL: offerTTL,
		},
		Channel: Channel{
			SendBuffer:   sendBuffer,
			PingInterval: pingInterval,
			WriteTimeout: writeTimeout,
		},
		Eligibility: Eligibility{
			GRPCHost: os.Getenv("ELIGIBILITY_GRPC_HOST"),
			Timeout:  eligibilityTimeout,
		},
		Kafka: Kafka{
			Enabled:            kafkaEnabled,
			Brokers:            os.Getenv("KAFKA_BROKERS"),
			PlacedTopic:        osGetString("KAFKA_TOPIC_ORDERS_PLACED", "orders.placed"),
			StatusChangedTopic: osGetString("KAFKA_TOPIC_ORDERS_STATUS_CHANGED", "orders.status_changed"),
			ConsumerGroup:      os.Getenv("KAFKA_CONSUMER_GROUP"),
			Sarama: Sarama{
				Version:                   osGetString("KAFKA_SARAMA_VERSION", "3.6.0"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderPlaced: OrderPlaced{
					ProcessTimeout: orderPlacedTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable or --port flag)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if err := validateDatabase(cfg.Database); err != nil {
			return err
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q",
			StorageDriverPostgres, StorageDriverMemory, cfg.Storage.Driver)
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if cfg.Auth.CodeHashCost < 4 || cfg.Auth.CodeHashCost > 31 {
		return errors.New("AUTH_CODE_HASH_COST must be in range [4, 31]")
	}

	if cfg.Dispatch.OfferTTL <= 0 {
		return errors.New("DISPATCH_OFFER_TTL must be positive")
	}
	if cfg.Tasks.OfferExpiryInterval <= 0 {
		return errors.New("BACKGROUND_OFFER_EXPIRY_INTERVAL must be positive")
	}
	if cfg.Tasks.PendingRebroadcastInterval <= 0 {
		return errors.New("BACKGROUND_PENDING_REBROADCAST_INTERVAL must be positive")
	}

	if cfg.Channel.SendBuffer <= 0 {
		return errors.New("CHANNEL_SEND_BUFFER must be positive")
	}
	if cfg.Channel.PingInterval <= 0 || cfg.Channel.WriteTimeout <= 0 {
		return errors.New("CHANNEL_PING_INTERVAL and CHANNEL_WRITE_TIMEOUT must be positive")
	}

	if cfg.Kafka.Enabled {
		if cfg.Kafka.Brokers == "" {
			return errors.New("KAFKA_BROKERS is required")
		}
		if cfg.Kafka.ConsumerGroup == "" {
			return errors.New("KAFKA_CONSUMER_GROUP is required")
		}
		if cfg.Kafka.Handlers.OrderPlaced.ProcessTimeout == time.Duration(0) {
			return errors.New("KAFKA_HANDLER_ORDER_PLACED_PROCESS_TIMEOUT is required")
		}
	}

	return nil
}

func validateDatabase(db Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	if db.MaxConns <= 0 || db.MinConns < 0 || db.MinConns > db.MaxConns {
		return errors.New("POSTGRES_MIN_CONNS and POSTGRES_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
	}
	return nil
}

func osGetString(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func osGetInt(key string, def int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}

	res, err := cast.ToIntE(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", key, val, err)
	}
	return res, nil
}

func osGetDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}

	res, err := cast.ToDurationE(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", key, val, err)
	}
	return res, nil
}

func osGetBool(key string, def bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}

	res, err := cast.ToBoolE(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", key, val, err)
	}
	return res, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
