package scaffold

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sitekit-dev/sitekit/pkg/version"
)

// Data holds the values passed to every .tmpl skeleton file.
type Data struct {
	ProjectName string
	SiteName    string
	Version     string
	Port        int
}

// NewData derives template data from the project directory. The site name
// defaults to the title-cased directory name: "my-site" -> "My Site".
func NewData(projectDir, siteName string, port int) Data {
	name := filepath.Base(filepath.Clean(projectDir))
	if siteName == "" {
		siteName = ToTitle(name)
	}
	return Data{
		ProjectName: name,
		SiteName:    siteName,
		Version:     version.GetVersion(),
		Port:        port,
	}
}

// ToTitle converts a hyphenated or underscored name to a title-case string.
func ToTitle(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
