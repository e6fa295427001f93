package parser

import "strings"

// MaxInternPoolSize limits the pool to prevent unbounded memory growth.
// Past the limit addresses are still canonicalized but no longer shared.
const MaxInternPoolSize = 100000

// macPool canonicalizes the MAC tokens of one extraction. The same few
// device addresses appear on most lines of a log, so each distinct spelling
// is lower-cased once and every record naming it shares the result.
// A pool is owned by a single Extract call and is not safe for concurrent use.
type macPool struct {
	pool map[string]string
}

func newMACPool() *macPool {
	return &macPool{pool: make(map[string]string, 64)}
}

// canonical returns the lower-case form of a MAC token. Other tokens, such
// as the "NA" parent placeholder, are returned trimmed and otherwise as-is.
func (p *macPool) canonical(s string) string {
	s = strings.TrimSpace(s)
	if pooled, ok := p.pool[s]; ok {
		return pooled
	}
	if !IsMAC(s) {
		return s
	}

	v := strings.ToLower(s)
	if len(p.pool) < MaxInternPoolSize {
		p.pool[s] = v
	}
	return v
}

// Len returns the number of distinct spellings in the pool.
func (p *macPool) Len() int {
	return len(p.pool)
}
