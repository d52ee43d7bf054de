// Package registry holds the category definitions used to categorize
// transactions. Debit and credit categories are distinct namespaces: a name
// may exist independently in each.
package registry

import (
	"errors"
	"fmt"

	"github.com/kestrelworks/sift/internal/config"
	"github.com/kestrelworks/sift/internal/pattern"
)

// Registry errors.
var (
	ErrEmptyName        = errors.New("category name cannot be empty")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
)

// Definition is one category: its raw patterns, their compiled form, and an
// optional reimbursement formula. The compiled set is derived state, rebuilt
// whenever the raw pattern list changes.
type Definition struct {
	Name          string
	Patterns      []string
	Reimbursement string
	matcher       *pattern.Set
}

// Matches reports whether any of the definition's patterns match the
// description.
func (d *Definition) Matches(description string) bool {
	return d.matcher.Matches(description)
}

func (d *Definition) recompile() error {
	set, err := pattern.Compile(d.Patterns)
	if err != nil {
		return fmt.Errorf("category %q: %w", d.Name, err)
	}
	d.matcher = set
	return nil
}

// namespace keeps definitions in insertion order alongside a name lookup.
type namespace struct {
	defs  map[string]*Definition
	order []string
}

func newNamespace() *namespace {
	return &namespace{defs: make(map[string]*Definition)}
}

func (n *namespace) add(def *Definition) {
	n.defs[def.Name] = def
	n.order = append(n.order, def.Name)
}

// Registry is the full category mapping for a session. Every mutation sets
// the dirty flag, which triggers a configuration save prompt at shutdown.
type Registry struct {
	debit  *namespace
	credit *namespace
	dirty  bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{debit: newNamespace(), credit: newNamespace()}
}

// FromConfig builds a registry from persisted category definitions, compiling
// every pattern up front. A malformed pattern fails the load.
func FromConfig(debits, credits []config.Category) (*Registry, error) {
	r := New()
	for _, group := range []struct {
		ns         *namespace
		categories []config.Category
	}{
		{r.debit, debits},
		{r.credit, credits},
	} {
		for _, c := range group.categories {
			if c.Name == "" {
				return nil, ErrEmptyName
			}
			def := &Definition{
				Name:          c.Name,
				Patterns:      append([]string(nil), c.Patterns...),
				Reimbursement: c.Reimbursement,
			}
			if err := def.recompile(); err != nil {
				return nil, err
			}
			group.ns.add(def)
		}
	}
	return r, nil
}

func (r *Registry) namespace(debit bool) *namespace {
	if debit {
		return r.debit
	}
	return r.credit
}

// Find returns the names of every category in the sign's namespace whose
// patterns match the description, in registry insertion order.
func (r *Registry) Find(debit bool, description string) []string {
	ns := r.namespace(debit)
	var matches []string
	for _, name := range ns.order {
		if ns.defs[name].Matches(description) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Get looks up a category by name in the sign's namespace.
func (r *Registry) Get(debit bool, name string) (*Definition, bool) {
	def, ok := r.namespace(debit).defs[name]
	return def, ok
}

// Names returns all category names in the sign's namespace, in insertion
// order. Used for prompt autocompletion.
func (r *Registry) Names(debit bool) []string {
	return append([]string(nil), r.namespace(debit).order...)
}

// Create registers a new category, optionally seeded with one pattern, and
// marks the registry dirty.
func (r *Registry) Create(debit bool, name, pat string) (*Definition, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	ns := r.namespace(debit)
	if _, ok := ns.defs[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryExists, name)
	}

	def := &Definition{Name: name}
	if pat != "" {
		def.Patterns = []string{pat}
	}
	if err := def.recompile(); err != nil {
		return nil, err
	}

	ns.add(def)
	r.dirty = true
	return def, nil
}

// AddPattern appends a new pattern to an existing category and marks the
// registry dirty.
func (r *Registry) AddPattern(debit bool, name, pat string) error {
	def, ok := r.namespace(debit).defs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}

	def.Patterns = append(def.Patterns, pat)
	if err := def.recompile(); err != nil {
		// Roll back: keep the definition usable.
		def.Patterns = def.Patterns[:len(def.Patterns)-1]
		if rerr := def.recompile(); rerr != nil {
			return rerr
		}
		return err
	}

	r.dirty = true
	return nil
}

// SetReimbursement attaches or overwrites the saved formula for a category
// and marks the registry dirty.
func (r *Registry) SetReimbursement(debit bool, name, formula string) error {
	def, ok := r.namespace(debit).defs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	def.Reimbursement = formula
	r.dirty = true
	return nil
}

// Dirty reports whether the registry has been mutated since load.
func (r *Registry) Dirty() bool {
	return r.dirty
}

// Snapshot renders both namespaces back into their persisted form.
func (r *Registry) Snapshot() (debits, credits []config.Category) {
	snapshot := func(ns *namespace) []config.Category {
		out := make([]config.Category, 0, len(ns.order))
		for _, name := range ns.order {
			def := ns.defs[name]
			out = append(out, config.Category{
				Name:          def.Name,
				Patterns:      append([]string(nil), def.Patterns...),
				Reimbursement: def.Reimbursement,
			})
		}
		return out
	}
	return snapshot(r.debit), snapshot(r.credit)
}
