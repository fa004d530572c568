package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type (
	Tasks struct {
		CityDispatchInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware  rate limiter capacity
		RateLimiterBurst int           // middlewarerate limiter burst/refill
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
	}

	ChatGuru struct {
		URL       string
		Key       string
		AccountID string
		PhoneID   string
		DialogID  string
		Timeout   time.Duration
	}

	Assignment struct {
		URL                string
		Email              string
		Password           string
		Timeout            time.Duration
		InsecureSkipVerify bool
	}

	Budget struct {
		DailyCap     float64
		PerOfferCost float64
		Pause        time.Duration
		Timezone     string
	}

	Offer struct {
		AvgSpeedKmh float64
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderStatusChanged OrderStatusChanged
	}

	OrderStatusChanged struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks      Tasks
		Server     HTTPServer
		Database   Database
		ChatGuru   ChatGuru
		Assignment Assignment
		Budget     Budget
		Offer      Offer
		Kafka      Kafka
	}
)

const (
	defaultAvgSpeedKmh   = 25
	defaultBudgetPause   = time.Hour
	defaultClientTimeout = 20 * time.Second
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

func loadFromEnv() (*Config, error) {
	cityDispatchInterval, err := osGetEnvDuration("BACKGROUND_CITY_DISPATCH_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderStatusChangedTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_STATUS_CHANGED_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	chatGuruTimeout, err := osGetEnvDuration("CHAT_GURU_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if chatGuruTimeout == time.Duration(0) {
		chatGuruTimeout = defaultClientTimeout
	}

	assignmentTimeout, err := osGetEnvDuration("GIROSS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if assignmentTimeout == time.Duration(0) {
		assignmentTimeout = defaultClientTimeout
	}

	assignmentInsecure, err := osGetBool("GIROSS_INSECURE_SKIP_VERIFY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	budgetDailyCap, err := osGetFloat("BUDGET_DAILY_CAP")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	budgetPerOfferCost, err := osGetFloat("BUDGET_PER_OFFER_COST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	budgetPause, err := osGetEnvDuration("BUDGET_PAUSE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if budgetPause == time.Duration(0) {
		budgetPause = defaultBudgetPause
	}

	avgSpeedKmh, err := osGetFloat("OFFER_AVG_SPEED_KMH")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if avgSpeedKmh == 0 {
		avgSpeedKmh = defaultAvgSpeedKmh
	}

	return &Config{
		Tasks: Tasks{
			CityDispatchInterval: cityDispatchInterval,
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
		},
		ChatGuru: ChatGuru{
			URL:       os.Getenv("CHAT_GURU_URL"),
			Key:       os.Getenv("CHAT_GURU_KEY"),
			AccountID: os.Getenv("CHAT_GURU_ACCOUNT_ID"),
			PhoneID:   os.Getenv("CHAT_GURU_PHONE_ID"),
			DialogID:  os.Getenv("CHAT_GURU_DIALOG_ID"),
			Timeout:   chatGuruTimeout,
		},
		Assignment: Assignment{
			URL:                os.Getenv("GIROSS_API_URL"),
			Email:              os.Getenv("GIROSS_EMAIL"),
			Password:           os.Getenv("GIROSS_PASSWORD"),
			Timeout:            assignmentTimeout,
			InsecureSkipVerify: assignmentInsecure,
		},
		Budget: Budget{
			DailyCap:     budgetDailyCap,
			PerOfferCost: budgetPerOfferCost,
			Pause:        budgetPause,
			Timezone:     os.Getenv("BUDGET_TIMEZONE"),
		},
		Offer: Offer{
			AvgSpeedKmh: avgSpeedKmh,
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           os.Getenv("KAFKA_TOPIC"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderStatusChanged: OrderStatusChanged{
					ProcessTimeout: orderStatusChangedTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
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

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.CityDispatchInterval == time.Duration(0) {
		return errors.New("BACKGROUND_CITY_DISPATCH_INTERVAL is required")
	}

	if cfg.ChatGuru.URL == "" {
		return errors.New("CHAT_GURU_URL is required")
	}
	if cfg.ChatGuru.Key == "" {
		return errors.New("CHAT_GURU_KEY is required")
	}
	if cfg.ChatGuru.AccountID == "" {
		return errors.New("CHAT_GURU_ACCOUNT_ID is required")
	}
	if cfg.ChatGuru.PhoneID == "" {
		return errors.New("CHAT_GURU_PHONE_ID is required")
	}
	if cfg.ChatGuru.DialogID == "" {
		return errors.New("CHAT_GURU_DIALOG_ID is required")
	}

	if cfg.Assignment.URL == "" {
		return errors.New("GIROSS_API_URL is required")
	}
	if cfg.Assignment.Email == "" {
		return errors.New("GIROSS_EMAIL is required")
	}
	if cfg.Assignment.Password == "" {
		return errors.New("GIROSS_PASSWORD is required")
	}

	if cfg.Budget.DailyCap > 0 && cfg.Budget.PerOfferCost == 0 {
		return errors.New("BUDGET_PER_OFFER_COST is required when BUDGET_DAILY_CAP is set")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.OrderStatusChanged.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_STATUS_CHANGED_PROCESS_TIMEOUT is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}