package config

import "path/filepath"

// Config is the root configuration aggregate.
type Config struct {
	Site   SiteConfig   `yaml:"site" mapstructure:"site"`
	Build  BuildConfig  `yaml:"build" mapstructure:"build"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`

	// Root is the project root every relative path is resolved against.
	Root string `yaml:"-" mapstructure:"-"`
}

// SiteConfig carries site-wide values exposed to every template as .Site.
type SiteConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"` // enables sitemap.xml when set
}

// BuildConfig describes where templates live and where output goes.
type BuildConfig struct {
	TemplatesDir   string `yaml:"templates_dir" mapstructure:"templates_dir"`
	PagesDir       string `yaml:"pages_dir" mapstructure:"pages_dir"` // relative to TemplatesDir
	HomeTemplate   string `yaml:"home_template" mapstructure:"home_template"`
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir"`
	StaticDir      string `yaml:"static_dir" mapstructure:"static_dir"`
	TemplateSuffix string `yaml:"template_suffix" mapstructure:"template_suffix"`
	MarkdownLayout string `yaml:"markdown_layout" mapstructure:"markdown_layout"`
}

// ServerConfig configures the background static file server.
type ServerConfig struct {
	Port    int    `yaml:"port" mapstructure:"port"`
	PIDFile string `yaml:"pid_file" mapstructure:"pid_file"`
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// Abs resolves p against the project root unless it is already absolute.
func (c *Config) Abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// TemplatesPath returns the absolute templates directory.
func (c *Config) TemplatesPath() string { return c.Abs(c.Build.TemplatesDir) }

// OutputPath returns the absolute output directory.
func (c *Config) OutputPath() string { return c.Abs(c.Build.OutputDir) }

// StaticPath returns the absolute static assets directory.
func (c *Config) StaticPath() string { return c.Abs(c.Build.StaticDir) }

// PIDPath returns the absolute lock file path.
func (c *Config) PIDPath() string { return c.Abs(c.Server.PIDFile) }

// LogPath returns the absolute server log path.
func (c *Config) LogPath() string { return c.Abs(c.Server.LogFile) }
