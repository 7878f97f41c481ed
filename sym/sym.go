// Package sym provides interned symbols for target and variable names.
// Symbols with equal content share the same backing string, so equality
// and map lookups reduce to pointer comparison.
package sym

import "sync"

// Symbol is an interned identifier. The zero value is the empty symbol.
type Symbol struct {
	str *string
}

var (
	mu    sync.Mutex
	table = map[string]*string{}
)

// Empty is the sentinel empty symbol.
var Empty = Intern("")

// Intern returns the symbol for s, creating it if necessary.
func Intern(s string) Symbol {
	mu.Lock()
	defer mu.Unlock()
	if v, ok := table[s]; ok {
		return Symbol{v}
	}
	v := new(string)
	*v = s
	table[s] = v
	return Symbol{v}
}

func (s Symbol) String() string {
	if s.str == nil {
		return ""
	}
	return *s.str
}

// IsEmpty reports whether s is the empty symbol.
func (s Symbol) IsEmpty() bool {
	return s.str == nil || *s.str == ""
}
