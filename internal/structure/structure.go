// Package structure provides salary structures: the earnings and deductions
// templates a Job Offer is populated from.
package structure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fbts/job-offer/internal/salary"
)

var (
	// ErrNameRequired is returned when a lookup is attempted without a name.
	ErrNameRequired = errors.New("please provide a salary structure name")
	// ErrNotFound indicates the salary structure does not exist or returned no components.
	ErrNotFound = errors.New("salary structure not found")
	// ErrPermission indicates the caller may not read the salary structure.
	ErrPermission = errors.New("no permission to read salary structure")
)

// Meta carries the structure attributes copied onto an offer.
type Meta struct {
	Currency         string      `json:"currency,omitempty" yaml:"currency,omitempty" mapstructure:"currency"`
	PayrollFrequency string      `json:"payroll_frequency,omitempty" yaml:"payrollFrequency,omitempty" mapstructure:"payrollFrequency"`
	IsActive         salary.Flag `json:"is_active" yaml:"isActive,omitempty" mapstructure:"isActive"`
}

// Structure is a named set of earnings and deductions rows.
type Structure struct {
	Name       string       `json:"salary_structure" yaml:"name" mapstructure:"name" validate:"required"`
	Meta       Meta         `json:"meta" yaml:"meta,omitempty" mapstructure:"meta"`
	Earnings   []salary.Row `json:"earnings" yaml:"earnings" mapstructure:"earnings" validate:"dive"`
	Deductions []salary.Row `json:"deductions" yaml:"deductions" mapstructure:"deductions" validate:"dive"`
}

// Clone returns a deep copy of the structure.
func (s *Structure) Clone() *Structure {
	c := *s
	c.Earnings = salary.CloneRows(s.Earnings)
	c.Deductions = salary.CloneRows(s.Deductions)
	return &c
}

// Provider looks salary structures up by name.
type Provider interface {
	Lookup(ctx context.Context, name string) (*Structure, error)
}

// Invalidator is implemented by providers that keep copies of structures
// and can be told to drop one.
type Invalidator interface {
	Invalidate(ctx context.Context, name string) error
}

// Catalog is an in-memory Provider, typically built from configuration.
type Catalog struct {
	mu         sync.RWMutex
	structures map[string]*Structure
}

// NewCatalog indexes structures by name. Later duplicates replace earlier ones.
func NewCatalog(structures []Structure) *Catalog {
	c := &Catalog{structures: make(map[string]*Structure, len(structures))}
	for i := range structures {
		c.Put(structures[i])
	}
	return c
}

// Put adds or replaces a structure.
func (c *Catalog) Put(s Structure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.structures[s.Name] = s.Clone()
}

// Len returns the number of structures held.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.structures)
}

// Lookup returns a copy of the named structure.
func (c *Catalog) Lookup(_ context.Context, name string) (*Structure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.structures[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.Clone(), nil
}
