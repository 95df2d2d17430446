package config

import "github.com/sitekit-dev/sitekit/internal/defs"

// Default value constants.
const (
	DefaultSiteName   = "My Site"
	DefaultOutputDir  = "."
	DefaultPort       = 8000
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultEnvPrefix  = "SITEKIT"
	DefaultSiteLayout = defs.BaseTemplate
)

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name: DefaultSiteName,
		},
		Build: BuildConfig{
			TemplatesDir:   defs.TemplatesDir,
			PagesDir:       defs.PagesDir,
			HomeTemplate:   defs.HomeTemplate,
			OutputDir:      DefaultOutputDir,
			StaticDir:      defs.StaticDir,
			TemplateSuffix: defs.TemplateSuffix,
			MarkdownLayout: DefaultSiteLayout,
		},
		Server: ServerConfig{
			Port:    DefaultPort,
			PIDFile: defs.PIDFile,
			LogFile: defs.ServerLog,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// defaultKeys flattens NewDefaultConfig into viper keys so that every
// field is known to viper and can be overridden from the environment.
func defaultKeys() map[string]any {
	d := NewDefaultConfig()
	return map[string]any{
		"site.name":             d.Site.Name,
		"site.base_url":         d.Site.BaseURL,
		"build.templates_dir":   d.Build.TemplatesDir,
		"build.pages_dir":       d.Build.PagesDir,
		"build.home_template":   d.Build.HomeTemplate,
		"build.output_dir":      d.Build.OutputDir,
		"build.static_dir":      d.Build.StaticDir,
		"build.template_suffix": d.Build.TemplateSuffix,
		"build.markdown_layout": d.Build.MarkdownLayout,
		"server.port":           d.Server.Port,
		"server.pid_file":       d.Server.PIDFile,
		"server.log_file":       d.Server.LogFile,
		"log.level":             d.Log.Level,
		"log.format":            d.Log.Format,
	}
}
