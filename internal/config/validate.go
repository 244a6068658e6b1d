package config

import (
	"errors"
	"fmt"
	"net/url"

	"broadcaster/internal/domain"
)

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend base URL %q is not an absolute URL", c.Backend.BaseURL))
	}

	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend timeout must be positive"))
	}

	usesPassword := c.Auth.Email != "" || c.Auth.Password != "" || c.Auth.SecretName != ""
	if c.Auth.AccessToken == "" && usesPassword && c.Auth.URL == "" {
		errs = append(errs, errors.New("auth URL is required for password sign-in"))
	}

	if c.RedisEnabled() && c.Redis.DialTimeout <= 0 {
		errs = append(errs, errors.New("redis dial timeout must be positive"))
	}

	if c.Cache.TemplateTTL <= 0 {
		errs = append(errs, errors.New("template cache TTL must be positive"))
	}

	if c.History.PollInterval <= 0 {
		errs = append(errs, errors.New("history poll interval must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// ValidateDraftFile validates a broadcast draft file.
func ValidateDraftFile(f *DraftFile) error {
	var errs []error

	if _, ok := domain.ParseSendMode(f.Mode); !ok {
		errs = append(errs, fmt.Errorf("mode %q must be %q or %q", f.Mode, domain.ModeDirect, domain.ModeTemplate))
	}

	if f.Mode == string(domain.ModeDirect) && (f.Template != "" || len(f.Variables) > 0) {
		errs = append(errs, errors.New("template and variables are only valid in template mode"))
	}

	if f.Mode == string(domain.ModeTemplate) && (f.Message != "" || f.Media != nil) {
		errs = append(errs, errors.New("message and media are only valid in direct mode"))
	}

	if f.Media != nil && f.Media.URL != "" && f.Media.FileName != "" {
		errs = append(errs, errors.New("media.url and media.file are mutually exclusive"))
	}

	if len(errs) > 0 {
		return &domain.ConfigError{
			ConfigName: "draft",
			Err:        errors.Join(errs...),
		}
	}

	return nil
}
