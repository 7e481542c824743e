package config

import (
	"fmt"
	"os"

	"github.com/joshestein/csv-invoice-generator/internal/logger"
)

// Config holds the practice identity and banking details rendered onto every
// invoice, plus logging configuration. Practice and bank values are sourced
// from the environment; a missing key renders as a blank field on the invoice
// rather than failing the run, so only logging settings are validated here.
type Config struct {
	// Practice identity
	DoctorName            string
	PracticeNumber        string
	PracticePhone         string
	PracticeEmail         string
	PracticeAddress       string
	PractitionerRegNumber string

	// Banking details
	BankName          string
	BankAccountNumber string
	BankBranchCode    string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		DoctorName:            getEnv("DOCTOR_NAME", ""),
		PracticeNumber:        getEnv("PRACTICE_NUMBER", ""),
		PracticePhone:         getEnv("PRACTICE_PHONE", ""),
		PracticeEmail:         getEnv("PRACTICE_EMAIL", ""),
		PracticeAddress:       getEnv("PRACTICE_ADDRESS", ""),
		PractitionerRegNumber: getEnv("PRACTITIONER_REG_NUMBER", ""),
		BankName:              getEnv("BANK_NAME", ""),
		BankAccountNumber:     getEnv("BANK_ACCOUNT_NUMBER", ""),
		BankBranchCode:        getEnv("BANK_BRANCH_CODE", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'console' or 'json', got %q", c.LogFormat)
	}
	return nil
}

// PracticeFields returns the practice and bank details keyed by the template
// variable names the invoice template substitutes.
func (c *Config) PracticeFields() map[string]string {
	return map[string]string{
		"DoctorName":            c.DoctorName,
		"PracticeNumber":        c.PracticeNumber,
		"PracticePhone":         c.PracticePhone,
		"PracticeEmail":         c.PracticeEmail,
		"PracticeAddress":       c.PracticeAddress,
		"PractitionerRegNumber": c.PractitionerRegNumber,
		"BankName":              c.BankName,
		"BankAccountNumber":     c.BankAccountNumber,
		"BankBranchCode":        c.BankBranchCode,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
