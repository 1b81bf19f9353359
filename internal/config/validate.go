package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validateDescriber(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.IncomingDir) == "" {
		return errors.New("paths.incoming_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.IncomingDir == c.Paths.LibraryDir {
		return errors.New("paths.incoming_dir and paths.library_dir must differ")
	}
	return nil
}

func (c *Config) validateDetector() error {
	if c.Detector.BaseURL == "" {
		return nil // detection degrades to description-only names
	}
	if err := validateServiceURL(c.Detector.BaseURL); err != nil {
		return fmt.Errorf("detector.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateDescriber() error {
	if c.Describer.BaseURL == "" {
		return nil // describer degrades to timestamp fallback names
	}
	if err := validateServiceURL(c.Describer.BaseURL); err != nil {
		return fmt.Errorf("describer.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Workers < 1 || c.Workflow.Workers > 32 {
		return errors.New("workflow.workers must be between 1 and 32")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateServiceURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
