package model

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultCategories seeds the registry when config names none.
var DefaultCategories = []string{"Casa", "Lavoro", "Viaggi", "Salute", "Finanze", "Altro"}

// Categories is the set of known categories offered to users. Records keep
// their category string even if it is never registered here.
type Categories struct {
	mu    sync.RWMutex
	names []string
}

func NewCategories(names ...string) *Categories {
	c := &Categories{}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// Add registers name. It reports whether the set changed.
func (c *Categories) Add(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if err := ValidateCategory(name); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.names {
		if n == name {
			return false, nil
		}
	}
	c.names = append(c.names, name)
	return true, nil
}

func (c *Categories) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// List returns the categories in registration order.
func (c *Categories) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func ValidateCategory(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}
