package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
)

// skeleton holds the starter project. Files ending in .tmpl are rendered
// with Data and written without the suffix; everything else is copied
// as-is, including the site templates themselves.
//
//go:embed all:skeleton
var skeleton embed.FS

// Skeleton returns the embedded starter project rooted at its top directory.
func Skeleton() (fs.FS, error) {
	sub, err := fs.Sub(skeleton, "skeleton")
	if err != nil {
		return nil, fmt.Errorf("open embedded skeleton: %w", err)
	}
	return sub, nil
}
