package history

import "sync"

// MemorySlot is a Slot held in memory. It can be primed with data and
// made to fail, which is how the tests simulate a broken disk.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	LoadErr error
	SaveErr error
	saves   int
}

func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: data}
}

func (m *MemorySlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Data returns the last saved blob.
func (m *MemorySlot) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Saves counts successful writes.
func (m *MemorySlot) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
