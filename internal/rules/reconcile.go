package rules

import "github.com/solatis/seedkeeper/internal/types"

// NoticeReselectItem is emitted when a level change invalidates the item.
const NoticeReselectItem = "floor changed; reselect the item"

// Reconcile returns atom moved to newLevel. A non-empty item that the
// catalog does not list for newLevel is cleared; cleared reports that.
func Reconcile(atom types.Atom, newLevel types.Level, catalog Catalog) (out types.Atom, cleared bool) {
	atom.Level = newLevel
	if !atom.Item.IsSet() {
		return atom, false
	}
	for _, it := range catalog.ItemsForLevel(newLevel) {
		if it == atom.Item {
			return atom, false
		}
	}
	atom.Item = ""
	return atom, true
}

// SetLevel applies a level edit to atom in place and emits one Info notice
// when the item had to be cleared. Works for &simple.Atom and &sub[i] alike.
func (e *Engine) SetLevel(atom *types.Atom, newLevel types.Level) {
	if atom == nil {
		return
	}
	updated, cleared := Reconcile(*atom, newLevel, e.catalog)
	*atom = updated
	if cleared {
		e.notifier.Info(NoticeReselectItem)
	}
}
