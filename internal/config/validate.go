package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	parsed, err := url.Parse(c.Source.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("source.base_url must be an http(s) URL, got %q", c.Source.BaseURL)
	}
	if c.Source.RequestTimeout < 1 {
		return errors.New("source.request_timeout must be at least 1 second")
	}
	if c.Source.Retries < 1 {
		return errors.New("source.retries must be at least 1")
	}
	if c.Source.RetryBackoffMS < 1 {
		return errors.New("source.retry_backoff_ms must be at least 1")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Workers < 1 {
		return errors.New("fetch.workers must be at least 1")
	}
	switch c.Fetch.ExistingFileMatch {
	case MatchStem, MatchExact:
	default:
		return fmt.Errorf("fetch.existing_file_match must be %q or %q, got %q",
			MatchStem, MatchExact, c.Fetch.ExistingFileMatch)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
