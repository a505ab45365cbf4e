package template

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Sentinel errors for catalogue construction.
var (
	ErrUnboundVariable = errors.New("replacement uses a variable the pattern does not bind")
	ErrDuplicateName   = errors.New("duplicate template name")
	ErrEmptyPattern    = errors.New("template has no pattern")
)

// Template pairs a pattern with the replacement built when it matches.
type Template struct {
	Pattern     target.Expr
	Replacement Expr
	Name        string
	head        string
}

// Stats reports how often Apply found a template.
type Stats struct {
	Hits   int64
	Misses int64
}

// Catalogue holds templates in registration order together with the subtype
// table used to match them. It is built once, then only read; Apply is safe
// for concurrent use.
type Catalogue struct {
	subtypes  *SubtypeTable
	templates []Template
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{subtypes: NewSubtypeTable()}
}

// Add registers a template after every template already present. Every
// variable the replacement references must be bound by the pattern.
func (c *Catalogue) Add(tmpl Template) error {
	if tmpl.Pattern == nil {
		return fmt.Errorf("%w: %s", ErrEmptyPattern, tmpl.Name)
	}

	if tmpl.Name != "" {
		if _, exists := c.Lookup(tmpl.Name); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, tmpl.Name)
		}
	}

	bound := Variables(tmpl.Pattern)

	for _, name := range tmpl.Replacement.vars() {
		if !slices.Contains(bound, name) {
			return fmt.Errorf("%w: %s in %s", ErrUnboundVariable, name, tmpl.Name)
		}
	}

	tmpl.head = headKey(tmpl.Pattern)
	c.templates = append(c.templates, tmpl)

	return nil
}

// Subtypes returns the catalogue's subtype table.
func (c *Catalogue) Subtypes() *SubtypeTable {
	return c.subtypes
}

// Templates returns the registered templates in order.
func (c *Catalogue) Templates() []Template {
	return slices.Clone(c.templates)
}

// Len returns the number of registered templates.
func (c *Catalogue) Len() int {
	return len(c.templates)
}

// Lookup finds a template by name.
func (c *Catalogue) Lookup(name string) (Template, bool) {
	for _, tmpl := range c.templates {
		if tmpl.Name == name {
			return tmpl, true
		}
	}

	return Template{}, false
}

// Merge appends other's templates and relations after c's own.
func (c *Catalogue) Merge(other *Catalogue) error {
	for _, tmpl := range other.templates {
		if err := c.Add(tmpl); err != nil {
			return err
		}
	}

	c.subtypes.Merge(other.subtypes)

	return nil
}

// Apply matches candidate against the templates in registration order and
// commits to the first one that matches. ok is false when none does.
func (c *Catalogue) Apply(candidate target.Expr) (target.Expr, bool) {
	if c == nil || candidate == nil {
		return nil, false
	}

	head := headKey(candidate)

	for _, tmpl := range c.templates {
		if tmpl.head != "" && tmpl.head != head {
			continue
		}

		bindings, ok := Match(candidate, tmpl.Pattern, c.subtypes)
		if !ok {
			continue
		}

		c.hits.Add(1)

		return Build(tmpl.Replacement, bindings, candidate), true
	}

	c.misses.Add(1)

	return nil, false
}

// Stats returns the hit and miss counters.
func (c *Catalogue) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// ResetStats zeroes the counters.
func (c *Catalogue) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// headKey summarizes the outermost shape of an expression so Apply can skip
// templates that cannot match. "" means any shape.
func headKey(expr target.Expr) string {
	switch e := expr.(type) {
	case *target.Dot:
		return "." + e.Member
	case *target.Call:
		inner := headKey(e.Function)
		if inner == "" {
			return ""
		}

		return "(" + inner
	case *target.Identifier:
		return e.Name
	case *target.TypeRef:
		return e.Name
	}

	return ""
}

var defaultCatalogue = sync.OnceValues(LoadBuiltin)

// Default returns the built-in catalogue, loading it on first use. The
// result is shared and must not be modified.
func Default() (*Catalogue, error) {
	return defaultCatalogue()
}
