package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=wallet_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":5000"
const defaultFrontendURL = "http://localhost:8080"
const defaultOpeningBalance = "1000.00"
const defaultTokenTTL = time.Hour

type Config struct {
	ListenAddr     string
	DatabaseDSN    string
	MigrationsDir  string
	StorageDriver  string
	JWTSecret      string
	TokenTTL       time.Duration
	OpeningBalance decimal.Decimal
	FrontendURL    string
	KafkaBrokers   []string
}

func Load() (Config, error) {
	// Missing .env is fine; variables may come from the environment directly.
	_ = godotenv.Load()

	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	listenAddr := defaultListenAddr
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		listenAddr = ":" + port
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	tokenTTL := defaultTokenTTL
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		tokenTTL = parsed
	}

	openingRaw := strings.TrimSpace(os.Getenv("OPENING_BALANCE"))
	if openingRaw == "" {
		openingRaw = defaultOpeningBalance
	}
	openingBalance, err := decimal.NewFromString(openingRaw)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENING_BALANCE: %w", err)
	}
	if openingBalance.IsNegative() {
		return Config{}, fmt.Errorf("OPENING_BALANCE cannot be negative")
	}

	frontendURL := strings.TrimSpace(os.Getenv("FRONTEND_URL"))
	if frontendURL == "" {
		frontendURL = defaultFrontendURL
	}

	storageDriver := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER")))
	if storageDriver == "" {
		storageDriver = "postgres"
	}
	if storageDriver != "postgres" && storageDriver != "memory" {
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", storageDriver)
	}

	return Config{
		ListenAddr:     listenAddr,
		DatabaseDSN:    normalizeConnectionString(conn),
		MigrationsDir:  "migrations",
		StorageDriver:  storageDriver,
		JWTSecret:      secret,
		TokenTTL:       tokenTTL,
		OpeningBalance: openingBalance,
		FrontendURL:    frontendURL,
		KafkaBrokers:   splitBrokers(os.Getenv("KAFKA_BROKERS")),
	}, nil
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

// normalizeConnectionString converts "Key=Value;" style connection strings
// into the keyword form lib/pq expects. Plain lib/pq DSNs pass through.
func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
