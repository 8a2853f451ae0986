// internal/room/codes.go
package room

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
)

// codeAlphabet leaves out I, O, 0 and 1 so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxCodeAttempts bounds regeneration on collision. With 6 characters the space is
// 32^6 (about 10^9), so hitting the bound means something is badly wrong.
const maxCodeAttempts = 16

// GenerateCode returns a random room code of length n.
func GenerateCode(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return sb.String()
}

// NormalizeCode makes user-typed codes comparable: trimmed and upper case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CodeReserver hands out room codes. Reserve must be atomic: two concurrent calls with the
// same code never both return true.
type CodeReserver interface {
	Reserve(ctx context.Context, code string) (bool, error)
	Release(ctx context.Context, code string) error
}

// MemoryReserver reserves codes within this process.
type MemoryReserver struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

func NewMemoryReserver() *MemoryReserver {
	return &MemoryReserver{codes: make(map[string]struct{})}
}

func (m *MemoryReserver) Reserve(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.codes[code]; taken {
		return false, nil
	}
	m.codes[code] = struct{}{}
	return true, nil
}

func (m *MemoryReserver) Release(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, code)
	return nil
}
