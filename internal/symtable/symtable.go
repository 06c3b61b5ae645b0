// Package symtable implements the symbol table used by semantic analysis.
//
// Per spec.md §3 and §9, this is deliberately a flat hash map augmented with
// a scope_level integer rather than a stack of per-scope maps: entering a
// scope increments scope_level, exiting removes every symbol whose
// scope_level equals the current level and decrements. Lookup returns the
// symbol with the highest scope_level <= current level — innermost binding
// wins. That linear-sweep-on-exit behavior is the observable contract this
// package is tested against (spec.md §8 "Scope correctness").
package symtable

// SymbolKind distinguishes variables from functions (built-ins).
type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindFunction
)

// DataType mirrors ast.DataType without importing the ast package, keeping
// this a pure-data leaf the way spec.md §2 classifies it.
type DataType string

const (
	Num  DataType = "num"
	Str  DataType = "str"
	Void DataType = "void"
)

// Symbol is one entry in the table.
type Symbol struct {
	Name          string
	Kind          SymbolKind
	DataType      DataType
	IsInitialized bool
	ScopeLevel    int
}

// bucket is a chained list of symbols sharing a name.
type bucket = []*Symbol

// SymbolTable is a hash map with chained buckets, plus the current scope
// level.
type SymbolTable struct {
	buckets    map[string]bucket
	scopeLevel int
}

// New returns an empty table at scope level 0.
func New() *SymbolTable {
	return &SymbolTable{buckets: make(map[string]bucket)}
}

// EnterScope increments the current scope level.
func (t *SymbolTable) EnterScope() {
	t.scopeLevel++
}

// ExitScope removes every symbol declared at the current scope level, then
// decrements it. Calling ExitScope at level 0 is a no-op on the level (it
// never goes negative) but still removes every symbol declared at level 0;
// callers are expected to balance Enter/Exit calls 1:1.
func (t *SymbolTable) ExitScope() {
	for name, syms := range t.buckets {
		kept := syms[:0]
		for _, s := range syms {
			if s.ScopeLevel != t.scopeLevel {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(t.buckets, name)
		} else {
			t.buckets[name] = kept
		}
	}
	if t.scopeLevel > 0 {
		t.scopeLevel--
	}
}

// ScopeLevel returns the current depth (0 = global scope).
func (t *SymbolTable) ScopeLevel() int {
	return t.scopeLevel
}

// Declare inserts a new symbol at the current scope level. It returns false
// without modifying the table if a symbol with the same name already exists
// at the same scope level (spec.md §3 invariant); shadowing an outer
// binding is always allowed.
func (t *SymbolTable) Declare(sym *Symbol) bool {
	sym.ScopeLevel = t.scopeLevel
	for _, existing := range t.buckets[sym.Name] {
		if existing.ScopeLevel == t.scopeLevel {
			return false
		}
	}
	t.buckets[sym.Name] = append(t.buckets[sym.Name], sym)
	return true
}

// Lookup returns the symbol with the highest scope_level <= the current
// scope level among all symbols sharing name — the innermost still-live
// binding — or (nil, false) if none exists.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	syms, ok := t.buckets[name]
	if !ok {
		return nil, false
	}

	var best *Symbol
	for _, s := range syms {
		if s.ScopeLevel <= t.scopeLevel {
			if best == nil || s.ScopeLevel > best.ScopeLevel {
				best = s
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// MarkInitialized flips IsInitialized on sym. Symbols are pointers so this
// is visible to every subsequent Lookup of the same binding.
func MarkInitialized(sym *Symbol) {
	sym.IsInitialized = true
}
