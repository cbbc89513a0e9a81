package config

const (
	defaultConfigPath     = "~/.config/dvkarchive/config.toml"
	projectConfigName     = "dvkarchive.toml"
	defaultStateDir       = "~/.local/share/dvkarchive"
	defaultLogDir         = "~/.local/share/dvkarchive/logs"
	defaultSort           = "a"
	defaultCatalogName    = "catalog.db"
	defaultExportLevel    = "default"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	archiveDirEnv         = "DVK_ARCHIVE_DIR"
	defaultCatalogEnabled = true
)

// SearchFields lists the record fields a query can be matched against.
var SearchFields = []string{"title", "artists", "web_tags", "user_tags", "description", "id"}

var defaultSearchFields = []string{"title", "artists", "web_tags", "user_tags"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Archive: Archive{
			DefaultSort: defaultSort,
		},
		Search: Search{
			Fields: append([]string(nil), defaultSearchFields...),
		},
		Catalog: Catalog{
			Enabled: defaultCatalogEnabled,
		},
		Export: Export{
			Level: defaultExportLevel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
