// Package scaffold writes the fixed starter project (templates, CSS, shell
// scripts, requirements manifest and configuration) into a directory.
package scaffold

import "errors"

// Sentinel errors for the scaffold package.
var (
	// ErrTemplateNotFound indicates a skeleton file does not exist.
	ErrTemplateNotFound = errors.New("scaffold: template not found")

	// ErrMissingTemplateKey indicates a .tmpl file referenced data that was not provided.
	ErrMissingTemplateKey = errors.New("scaffold: missing template key")

	// ErrUnexpandedToken indicates rendered output still contains a template token.
	ErrUnexpandedToken = errors.New("scaffold: unexpanded template token")

	// ErrPathTraversal indicates an entry path escapes the target directory.
	ErrPathTraversal = errors.New("scaffold: path escapes project root")
)
