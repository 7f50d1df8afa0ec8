package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type requirement struct {
	field string
	value func(*Config) string
}

var (
	jwtSecretRequired  = requirement{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }}
	dbPasswordRequired = requirement{"DB_PASSWORD", func(c *Config) string {
		if c.DBDriver == DriverSQLite {
			return "n/a"
		}
		return c.DBPassword
	}}
	frontendURLRequired = requirement{"FRONTEND_URL", func(c *Config) string { return c.FrontendURL }}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Development: {jwtSecretRequired},
		Test:        {jwtSecretRequired},
		CI:          {jwtSecretRequired, dbPasswordRequired},
		Production:  {jwtSecretRequired, dbPasswordRequired, frontendURLRequired},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var problems []string
	for _, req := range requirements[env] {
		if req.value(cfg) == "" {
			problems = append(problems, ValidationError{Field: req.field, Message: fmt.Sprintf("required in %s environment", env)}.Error())
		}
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		problems = append(problems, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"}.Error())
	}

	switch cfg.LLMProvider {
	case ProviderGemini, ProviderDeepSeek:
	default:
		problems = append(problems, ValidationError{Field: "LLM_PROVIDER", Message: "must be gemini or deepseek"}.Error())
	}

	switch cfg.OCREngine {
	case OCRGemini, OCRTesseract:
	default:
		problems = append(problems, ValidationError{Field: "OCR_ENGINE", Message: "must be gemini or tesseract"}.Error())
	}

	if env == Production && len(cfg.JWTSecret) < 32 {
		problems = append(problems, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"}.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}

	return nil
}
