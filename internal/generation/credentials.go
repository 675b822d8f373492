package generation

import (
	"strings"

	"github.com/samber/lo"
)

// CredentialPool is an ordered list of API keys with a forward-only cursor.
// A pool belongs to one pipeline invocation and is not safe for concurrent
// use; concurrent invocations each build their own pool so that one
// caller's quota exhaustion never rotates another caller's key.
type CredentialPool struct {
	keys  []string
	index int
}

// NewCredentialPool keeps the non-blank keys in their given order.
func NewCredentialPool(keys []string) *CredentialPool {
	clean := lo.FilterMap(keys, func(k string, _ int) (string, bool) {
		k = strings.TrimSpace(k)
		return k, k != ""
	})
	return &CredentialPool{keys: clean}
}

// Current returns the active key, or false when the pool was never populated.
func (p *CredentialPool) Current() (string, bool) {
	if len(p.keys) == 0 {
		return "", false
	}
	return p.keys[p.index], true
}

// Rotate advances to the next key. It returns false when the pool is
// exhausted, in which case the cursor stays on the last key.
func (p *CredentialPool) Rotate() bool {
	if p.index+1 >= len(p.keys) {
		return false
	}
	p.index++
	return true
}

func (p *CredentialPool) Len() int   { return len(p.keys) }
func (p *CredentialPool) Index() int { return p.index }
