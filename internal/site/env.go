package site

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"text/template/parse"
)

// Environment loads templates by name from a filesystem rooted at the
// templates directory and resolves references between them.
//
// A template includes another with {{template "components/nav.html" .}}
// and extends a layout by defining the layout's blocks and then calling
// {{template "base.html" .}}. Any referenced name ending in the template
// suffix that the file does not define itself is loaded from the
// filesystem. Dependencies are parsed before their dependents, so a
// child's {{define}} replaces the parent's {{block}} default.
//
// An Environment caches sources and is not safe for concurrent use.
type Environment struct {
	fsys    fs.FS
	suffix  string
	funcs   template.FuncMap
	sources map[string]string
}

// NewEnvironment creates an Environment over fsys. suffix identifies
// file references (".html").
func NewEnvironment(fsys fs.FS, suffix string) *Environment {
	return &Environment{
		fsys:    fsys,
		suffix:  suffix,
		funcs:   funcMap(),
		sources: make(map[string]string),
	}
}

// Load parses the named template together with everything it includes
// or extends and returns it ready to execute.
func (e *Environment) Load(name string) (*template.Template, error) {
	name = path.Clean(name)
	src, err := e.source(name)
	if err != nil {
		return nil, err
	}
	return e.assemble(name, src)
}

// LoadSource is like Load but takes the entry template's text directly.
// References from src are still resolved against the filesystem.
func (e *Environment) LoadSource(name, src string) (*template.Template, error) {
	return e.assemble(path.Clean(name), src)
}

// Render loads name and executes it with data into w.
func (e *Environment) Render(w io.Writer, name string, data any) error {
	t, err := e.Load(name)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

// assemble parses the dependency closure of name in post-order into one set.
func (e *Environment) assemble(name, src string) (*template.Template, error) {
	order, err := e.resolve(name, src)
	if err != nil {
		return nil, err
	}

	set := template.New("").Funcs(e.funcs).Option("missingkey=error")
	for _, dep := range order {
		text := src
		if dep != name {
			if text, err = e.source(dep); err != nil {
				return nil, err
			}
		}
		if _, err := set.New(dep).Parse(text); err != nil {
			return nil, fmt.Errorf("parse %s: %w", dep, err)
		}
	}

	t := set.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t, nil
}

// resolve returns name and its transitive file dependencies, dependencies
// first. It fails on missing files and include cycles.
func (e *Environment) resolve(name, src string) ([]string, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var order []string

	var visit func(n, text string, stack []string) error
	visit = func(n, text string, stack []string) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrTemplateCycle, strings.Join(append(stack, n), " -> "))
		}
		state[n] = visiting
		stack = append(stack, n)

		refs, err := e.fileReferences(n, text)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			refText, err := e.source(ref)
			if err != nil {
				return fmt.Errorf("%s: %w", n, err)
			}
			if err := visit(ref, refText, stack); err != nil {
				return err
			}
		}

		state[n] = done
		order = append(order, n)
		return nil
	}

	if err := visit(name, src, nil); err != nil {
		return nil, err
	}
	return order, nil
}

// fileReferences parses text on its own and returns the template names it
// references that look like files and are not defined locally.
func (e *Environment) fileReferences(name, text string) ([]string, error) {
	t, err := template.New(name).Funcs(e.funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	// The file's own name counts as a reference target so self-inclusion
	// is reported as a cycle.
	defined := make(map[string]bool)
	for _, tt := range t.Templates() {
		if tt.Name() != name {
			defined[tt.Name()] = true
		}
	}

	// Templates() comes from a map. Visit the file body first and then its
	// defines by name so dependency order, and with it which of two
	// same-named blocks wins, is the same on every build.
	trees := t.Templates()
	slices.SortFunc(trees, func(a, b *template.Template) int {
		switch {
		case a.Name() == name:
			return -1
		case b.Name() == name:
			return 1
		}
		return strings.Compare(a.Name(), b.Name())
	})

	seen := make(map[string]bool)
	var refs []string
	for _, tt := range trees {
		if tt.Tree == nil {
			continue
		}
		walkReferences(tt.Tree.Root, func(ref string) {
			ref = path.Clean(ref)
			if defined[ref] || seen[ref] || !strings.HasSuffix(ref, e.suffix) {
				return
			}
			seen[ref] = true
			refs = append(refs, ref)
		})
	}
	return refs, nil
}

// walkReferences calls visit for every {{template}} action under node.
func walkReferences(node parse.Node, visit func(string)) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walkReferences(c, visit)
		}
	case *parse.TemplateNode:
		visit(n.Name)
	case *parse.IfNode:
		walkReferences(n.List, visit)
		walkReferences(n.ElseList, visit)
	case *parse.RangeNode:
		walkReferences(n.List, visit)
		walkReferences(n.ElseList, visit)
	case *parse.WithNode:
		walkReferences(n.List, visit)
		walkReferences(n.ElseList, visit)
	}
}

// source reads a template file, caching the result.
func (e *Environment) source(name string) (string, error) {
	if s, ok := e.sources[name]; ok {
		return s, nil
	}
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	data, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	e.sources[name] = string(data)
	return e.sources[name], nil
}
