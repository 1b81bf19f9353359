package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDetector()
	c.normalizeDescriber()
	c.normalizeIngest()
	c.normalizeNotifications()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.IncomingDir, err = expandPath(c.Paths.IncomingDir); err != nil {
		return fmt.Errorf("paths.incoming_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetector() {
	c.Detector.BaseURL = strings.TrimSpace(c.Detector.BaseURL)
	c.Detector.APIKey = strings.TrimSpace(c.Detector.APIKey)
	if c.Detector.APIKey == "" {
		if value, ok := os.LookupEnv("PHOTONYM_DETECTOR_API_KEY"); ok {
			c.Detector.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Detector.TimeoutSeconds <= 0 {
		c.Detector.TimeoutSeconds = defaultDetectorTimeout
	}
}

func (c *Config) normalizeDescriber() {
	c.Describer.BaseURL = strings.TrimSpace(c.Describer.BaseURL)
	c.Describer.APIKey = strings.TrimSpace(c.Describer.APIKey)
	if c.Describer.APIKey == "" {
		if value, ok := os.LookupEnv("PHOTONYM_DESCRIBER_API_KEY"); ok {
			c.Describer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Describer.TimeoutSeconds <= 0 {
		c.Describer.TimeoutSeconds = defaultDescriberTimeout
	}
}

func (c *Config) normalizeIngest() {
	if len(c.Ingest.Extensions) == 0 {
		c.Ingest.Extensions = append([]string(nil), defaultExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Ingest.Extensions))
	seen := make(map[string]struct{}, len(c.Ingest.Extensions))
	for _, ext := range c.Ingest.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append([]string(nil), defaultExtensions...)
	}
	c.Ingest.Extensions = exts
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = defaultWorkers
	}
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
