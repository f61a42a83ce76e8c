package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBackend keeps the document in process memory. It backs tests and
// dry runs where nothing should touch disk.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	backups map[string][]byte
	created map[string]time.Time

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
	// LoadErr, when set, is returned by every Load call.
	LoadErr error
}

// NewMemoryBackend returns a backend preloaded with data; nil means nothing
// persisted yet.
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{
		data:    data,
		backups: make(map[string][]byte),
		created: make(map[string]time.Time),
	}
}

func (m *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.data == nil {
		return nil, ErrNoDocument
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBackend) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Backup(_ context.Context, stamp string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return "", ErrNoDocument
	}
	loc := "memory.backup." + stamp
	m.backups[loc] = append([]byte(nil), m.data...)
	m.created[loc] = time.Now()
	return loc, nil
}

// Backups lists backups by location, newest stamp first.
func (m *MemoryBackend) Backups(_ context.Context) ([]BackupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BackupInfo, 0, len(m.backups))
	for loc, data := range m.backups {
		out = append(out, BackupInfo{Location: loc, Size: int64(len(data)), CreatedAt: m.created[loc]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location > out[j].Location })
	return out, nil
}

func (m *MemoryBackend) Location() string { return "memory" }

func (m *MemoryBackend) Size(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.data)), nil
}

// Data returns a copy of the persisted bytes.
func (m *MemoryBackend) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// BackupData returns the bytes stored under a backup location.
func (m *MemoryBackend) BackupData(loc string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.backups[loc]
	return b, ok
}
