package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeArchive()
	c.normalizeSearch()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(archiveDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.ArchiveDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.ArchiveDir, err = expandPath(strings.TrimSpace(c.Paths.ArchiveDir)); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArchive() {
	c.Archive.DefaultSort = strings.ToLower(strings.TrimSpace(c.Archive.DefaultSort))
	if c.Archive.DefaultSort == "" {
		c.Archive.DefaultSort = defaultSort
	}
}

func (c *Config) normalizeSearch() {
	var fields []string
	for _, field := range c.Search.Fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" || slices.Contains(fields, field) {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		fields = append(fields, defaultSearchFields...)
	}
	c.Search.Fields = fields
}

func (c *Config) normalizeCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = filepath.Join(c.Paths.StateDir, defaultCatalogName)
		return nil
	}
	var err error
	if c.Catalog.Path, err = expandPath(strings.TrimSpace(c.Catalog.Path)); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.Level = strings.ToLower(strings.TrimSpace(c.Export.Level))
	if c.Export.Level == "" {
		c.Export.Level = defaultExportLevel
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
