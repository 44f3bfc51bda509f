package rules

import (
	"github.com/solatis/seedkeeper/internal/notify"
	"github.com/solatis/seedkeeper/internal/types"
)

// Catalog supplies the items valid on each floor.
// Implemented by *catalog.Catalog.
type Catalog interface {
	ItemsForLevel(level types.Level) []types.ItemName
	Normalize(name string) types.ItemName
}

// Engine binds the catalog and notifier used by operations that emit
// diagnostics (Reconciler, Validator, preset application).
// Stateless apart from its collaborators; one Engine can serve many stores.
type Engine struct {
	catalog  Catalog
	notifier notify.Notifier
}

// NewEngine creates an engine. A nil notifier discards notices.
func NewEngine(catalog Catalog, notifier notify.Notifier) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Engine{catalog: catalog, notifier: notifier}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}
