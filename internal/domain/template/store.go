// Package template holds the normalized reference shapes strokes are
// compared against. A Store is built once and is read-only afterwards, so
// it can be shared by any number of concurrent recognitions.
package template

import (
	"fmt"
	"strings"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// Normalizer is the pipeline templates share with candidate strokes.
type Normalizer interface {
	Normalize(p geometry.Path) (geometry.Path, error)
}

// Template is a named, normalized reference path.
type Template struct {
	Name   string
	Points geometry.Path
}

// Store is an ordered, immutable set of templates.
type Store struct {
	templates []Template
	defs      []Definition
	index     map[string]int
}

// Build normalizes every definition with nz. Definition order is kept and
// decides ties during classification.
func Build(defs []Definition, nz Normalizer) (*Store, error) {
	if len(defs) == 0 {
		return nil, ErrNoDefinitions
	}

	s := &Store{
		templates: make([]Template, 0, len(defs)),
		defs:      make([]Definition, 0, len(defs)),
		index:     make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("definition without name: %w", ErrInvalidDefinition)
		}
		if _, ok := s.index[name]; ok {
			return nil, fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
		pts, err := nz.Normalize(d.Points)
		if err != nil {
			return nil, fmt.Errorf("%q: %w: %w", name, ErrInvalidDefinition, err)
		}
		d.Name = name
		if d.DisplayName == "" {
			d.DisplayName = name
		}
		d.Points = d.Points.Clone()
		s.index[name] = len(s.templates)
		s.templates = append(s.templates, Template{Name: name, Points: pts})
		s.defs = append(s.defs, d)
	}
	return s, nil
}

// Len returns the number of templates.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Names returns template names in store order.
func (s *Store) Names() []string {
	names := make([]string, s.Len())
	for i := range names {
		names[i] = s.templates[i].Name
	}
	return names
}

// Templates returns the templates in store order. The slice is a copy; the
// point data is shared and must not be modified.
func (s *Store) Templates() []Template {
	out := make([]Template, s.Len())
	if s != nil {
		copy(out, s.templates)
	}
	return out
}

// Lookup returns the template called name.
func (s *Store) Lookup(name string) (Template, error) {
	if s != nil {
		if i, ok := s.index[name]; ok {
			return s.templates[i], nil
		}
	}
	return Template{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// Definition returns the source definition of the template called name.
func (s *Store) Definition(name string) (Definition, bool) {
	if s != nil {
		if i, ok := s.index[name]; ok {
			return s.defs[i], true
		}
	}
	return Definition{}, false
}

// Definitions returns all source definitions in store order.
func (s *Store) Definitions() []Definition {
	out := make([]Definition, s.Len())
	if s != nil {
		copy(out, s.defs)
	}
	return out
}
