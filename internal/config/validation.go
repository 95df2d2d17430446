package config

import (
	"path"
	"slices"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the configuration for correctness and returns a
// *ValidationErrors listing every problem found.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateBuild(&cfg.Build)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLog(&cfg.Log)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateBuild(b *BuildConfig) []ValidationError {
	var errs []ValidationError

	required := []struct {
		field string
		value string
	}{
		{"build.templates_dir", b.TemplatesDir},
		{"build.pages_dir", b.PagesDir},
		{"build.home_template", b.HomeTemplate},
		{"build.output_dir", b.OutputDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, ValidationError{
				Field:   r.field,
				Message: "required field is empty",
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if !strings.HasPrefix(b.TemplateSuffix, ".") || len(b.TemplateSuffix) < 2 {
		errs = append(errs, ValidationError{
			Field:   "build.template_suffix",
			Message: "must start with '.' and name an extension",
			Value:   b.TemplateSuffix,
			Wrapped: ErrInvalidConfig,
		})
	}

	// Template names are slash paths relative to the templates root.
	for _, name := range []struct {
		field string
		value string
	}{
		{"build.home_template", b.HomeTemplate},
		{"build.markdown_layout", b.MarkdownLayout},
	} {
		if name.value == "" {
			continue
		}
		if path.IsAbs(name.value) || strings.HasPrefix(path.Clean(name.value), "..") {
			errs = append(errs, ValidationError{
				Field:   name.field,
				Message: "must be a path relative to the templates directory",
				Value:   name.value,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	return errs
}

func validateServer(s *ServerConfig) []ValidationError {
	var errs []ValidationError
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: "must be between 1 and 65535",
			Value:   s.Port,
			Wrapped: ErrInvalidPort,
		})
	}
	if s.PIDFile == "" {
		errs = append(errs, ValidationError{
			Field:   "server.pid_file",
			Message: "required field is empty",
			Wrapped: ErrInvalidConfig,
		})
	}
	if s.LogFile == "" {
		errs = append(errs, ValidationError{
			Field:   "server.log_file",
			Message: "required field is empty",
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

func validateLog(l *LogConfig) []ValidationError {
	var errs []ValidationError
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: "must be one of: " + strings.Join(validLogLevels, ", "),
			Value:   l.Level,
			Wrapped: ErrInvalidConfig,
		})
	}
	if !slices.Contains(validLogFormats, strings.ToLower(l.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: "must be one of: " + strings.Join(validLogFormats, ", "),
			Value:   l.Format,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// ValidatePort reports whether port is usable for the file server.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{
			Field:   "port",
			Message: "must be between 1 and 65535",
			Value:   port,
			Wrapped: ErrInvalidPort,
		}
	}
	return nil
}
