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

// requirement is one check applied in the listed environments.
type requirement struct {
	field string
	envs  []Environment
	ok    func(*Config) bool
	msg   string
}

var requirements = []requirement{
	{"db.driver", nil, func(c *Config) bool { return c.DB.Driver == "postgres" || c.DB.Driver == "sqlite" }, "must be postgres or sqlite"},
	{"server.port", nil, func(c *Config) bool { return c.Server.Port != "" }, "is required"},
	{"jwt.ttl", nil, func(c *Config) bool { return c.JWT.TTL > 0 }, "must be positive"},
	{"rate_limit.requests", nil, func(c *Config) bool { return c.RateLimit.Requests > 0 }, "must be positive"},
	{"rate_limit.window", nil, func(c *Config) bool { return c.RateLimit.Window > 0 }, "must be positive"},
	{"jwt.secret", []Environment{CI, Production}, func(c *Config) bool { return c.JWT.Secret != "" && c.JWT.Secret != defaultJWTSecret }, "must be set to a non-default value"},
	{"db.password", []Environment{Production}, func(c *Config) bool { return c.DB.Driver != "postgres" || c.DB.Password != "" }, "is required"},
	{"llm.api_key", []Environment{Production}, func(c *Config) bool { return c.LLM.APIKey != "" }, "is required"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string
	for _, req := range requirements {
		if !appliesTo(req.envs, cfg.Env) || req.ok(cfg) {
			continue
		}
		errors = append(errors, ValidationError{Field: req.field, Message: req.msg}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}

func appliesTo(envs []Environment, env Environment) bool {
	if len(envs) == 0 {
		return true
	}
	for _, e := range envs {
		if e == env {
			return true
		}
	}
	return false
}
