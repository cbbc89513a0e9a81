package config

import (
	"fmt"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateArchive() error {
	switch c.Archive.DefaultSort {
	case "a", "t", "r", "v", "alpha", "time", "rating", "views":
		return nil
	}
	return fmt.Errorf("archive.default_sort: unsupported value %q (use a, t, r, or v)", c.Archive.DefaultSort)
}

func (c *Config) validateSearch() error {
	for _, field := range c.Search.Fields {
		if !slices.Contains(SearchFields, field) {
			return fmt.Errorf("search.fields: unknown field %q", field)
		}
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Level {
	case "fastest", "default", "better", "best":
		return nil
	}
	return fmt.Errorf("export.level: unsupported value %q", c.Export.Level)
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
