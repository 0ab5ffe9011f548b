package parser

import "fmt"

// Symbol is a named address recorded during pass 1.
type Symbol struct {
	Name    string
	Value   uint32
	Defined bool
	Pos     Position
}

// SymbolTable maps label names to byte addresses.
type SymbolTable struct {
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Define binds name to value at pos. Redefining an already-defined label
// is an error (labels are single-assignment within a translation unit).
func (st *SymbolTable) Define(name string, value uint32, pos Position) error {
	if sym, exists := st.symbols[name]; exists && sym.Defined {
		return fmt.Errorf("label %q already defined at %s", name, sym.Pos)
	}
	st.symbols[name] = &Symbol{Name: name, Value: value, Defined: true, Pos: pos}
	return nil
}

// Lookup returns the symbol for name, if any.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, exists := st.symbols[name]
	return sym, exists
}

// Get returns the address bound to name, or an error if it is undefined.
func (st *SymbolTable) Get(name string) (uint32, error) {
	sym, exists := st.symbols[name]
	if !exists || !sym.Defined {
		return 0, fmt.Errorf("undefined label: %q", name)
	}
	return sym.Value, nil
}

// All returns every defined symbol, for cross-reference reporting.
func (st *SymbolTable) All() map[string]*Symbol {
	return st.symbols
}
