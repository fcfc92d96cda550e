package auth

import (
	"net/http"
	"sync"
)

const (
	AbilityAdmin                 = "admin"
	AbilityViewWalletAddresses   = "view-wallet-addresses"
	AbilityImportWalletAddresses = "import-wallet-addresses"
)

// Ability decides whether a principal may do something.
type Ability func(p Principal) bool

// Gate is a registry of named abilities.
type Gate struct {
	mu        sync.RWMutex
	abilities map[string]Ability
}

func NewGate() *Gate {
	return &Gate{abilities: make(map[string]Ability)}
}

// DefaultGate defines the abilities the HTTP surface checks.
func DefaultGate() *Gate {
	g := NewGate()
	g.Define(AbilityAdmin, Principal.IsAdmin)
	g.Define(AbilityViewWalletAddresses, Principal.IsAdmin)
	g.Define(AbilityImportWalletAddresses, Principal.IsAdmin)
	return g
}

// Define registers or replaces the ability called name.
func (g *Gate) Define(name string, ability Ability) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abilities[name] = ability
}

// Allows reports whether p holds ability name. Undefined abilities deny.
func (g *Gate) Allows(p Principal, name string) bool {
	g.mu.RLock()
	ability, ok := g.abilities[name]
	g.mu.RUnlock()
	return ok && ability(p)
}

// Authorize responds 401 without a principal and 403 when the principal
// lacks ability name.
func (g *Gate) Authorize(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !g.Allows(principal, name) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
