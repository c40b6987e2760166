package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Cache
	Workers
	Server
	Mpesa
}

type Cache struct {
	Store    string
	Host     string
	Port     string
	Password string
}

type Workers struct {
	CallbackCount      int
	CallbackBufferSize int
}

type Server struct {
	Port                  string
	AllowedOrigins        []string
	StrictPhoneValidation bool
}

type Mpesa struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	ShortCode        string
	PassKey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
	Timeout          time.Duration
}

func NewConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	return &Config{
		Cache: Cache{
			Store:    getEnvString("TOKEN_STORE", "memory"),
			Host:     getEnvString("CACHE_HOST", "localhost"),
			Port:     getEnvString("CACHE_PORT", "6379"),
			Password: getEnvString("CACHE_PASSWORD", ""),
		},
		Workers: Workers{
			CallbackCount:      getEnvInt("CALLBACK_WORKERS_COUNT", 2),
			CallbackBufferSize: getEnvInt("CALLBACK_WORKERS_EVENTS_BUFFER_SIZE", 100),
		},
		Server: Server{
			Port:                  getEnvString("PORT", "3000"),
			AllowedOrigins:        getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			StrictPhoneValidation: getEnvBool("STRICT_PHONE_VALIDATION", false),
		},
		Mpesa: Mpesa{
			BaseURL:          getEnvString("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:      getEnvString("CONSUMER_KEY", ""),
			ConsumerSecret:   getEnvString("CONSUMER_SECRET", ""),
			ShortCode:        getEnvString("BUSINESS_SHORT_CODE", ""),
			PassKey:          getEnvString("PASSKEY", ""),
			CallbackURL:      getEnvString("CALLBACK_URL", ""),
			AccountReference: getEnvString("ACCOUNT_REFERENCE", "Coffee Kiosk"),
			TransactionDesc:  getEnvString("TRANSACTION_DESC", "Coffee Purchase"),
			Timeout:          getEnvDuration("MPESA_TIMEOUT", 0),
		},
	}
}

// Missing returns the names of required gateway settings that are empty.
func (c *Config) Missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"CONSUMER_KEY", c.Mpesa.ConsumerKey},
		{"CONSUMER_SECRET", c.Mpesa.ConsumerSecret},
		{"BUSINESS_SHORT_CODE", c.Mpesa.ShortCode},
		{"PASSKEY", c.Mpesa.PassKey},
		{"CALLBACK_URL", c.Mpesa.CallbackURL},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	return missing
}

func getEnvString(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}

	return list
}
