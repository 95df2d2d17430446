package defs

// Common file names used across the project.
const (
	// ConfigYAML is the project configuration file at the project root.
	ConfigYAML = "sitekit.yaml"

	// IndexHTML is the file every rendered page is written to.
	IndexHTML = "index.html"

	// SitemapXML is written next to the home page when a base URL is configured.
	SitemapXML = "sitemap.xml"

	// PIDFile is the lock file recording the background server process.
	PIDFile = ".server_pid"

	// ServerLog receives stdout and stderr of the background server.
	ServerLog = "server.log"

	// LocalBinDir is the project-local tool directory populated by setup_env.sh.
	LocalBinDir = ".bin"
)

// Template layout under the templates root.
const (
	TemplatesDir   = "templates"
	PagesDir       = "pages"
	ComponentsDir  = "components"
	StaticDir      = "static"
	HomeTemplate   = "home.html"
	BaseTemplate   = "base.html"
	TemplateSuffix = ".html"
	MarkdownSuffix = ".md"
)
