// Package memory provides an in-memory bonus.Sources implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// MEMORY SOURCE
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	employees  map[bonus.EmployeeID]bonus.Employee
	history    map[bonus.EmployeeID][]bonus.SeniorityHistoryEntry
	corporate  map[int][]bonus.CorporateObjective
	personal   map[personalKey][]bonus.PersonalObjective
	failOnRead error
}

type personalKey struct {
	EmployeeID bonus.EmployeeID
	Year       int
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[bonus.EmployeeID]bonus.Employee),
		history:   make(map[bonus.EmployeeID][]bonus.SeniorityHistoryEntry),
		corporate: make(map[int][]bonus.CorporateObjective),
		personal:  make(map[personalKey][]bonus.PersonalObjective),
	}
}

// FailReads makes every read return err. Pass nil to clear.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnRead = err
}

// =============================================================================
// WRITES (seeding)
// =============================================================================

func (m *Memory) PutEmployee(e bonus.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

// AppendSeniority adds a history entry. The log is append-only and kept
// ordered by effective date.
func (m *Memory) AppendSeniority(e bonus.SeniorityHistoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.history[e.EmployeeID]
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].EffectiveDate.After(e.EffectiveDate)
	})
	entries = append(entries, bonus.SeniorityHistoryEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	m.history[e.EmployeeID] = entries
}

func (m *Memory) AddCorporateObjective(o bonus.CorporateObjective) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corporate[o.Year] = append(m.corporate[o.Year], o)
}

func (m *Memory) AddPersonalObjective(o bonus.PersonalObjective) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := personalKey{EmployeeID: o.EmployeeID, Year: o.Year}
	m.personal[k] = append(m.personal[k], o)
}

// =============================================================================
// READS (bonus.Sources)
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id bonus.EmployeeID) (*bonus.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failOnRead != nil {
		return nil, m.failOnRead
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]bonus.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failOnRead != nil {
		return nil, m.failOnRead
	}
	out := make([]bonus.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) LatestSeniorityAsOf(_ context.Context, id bonus.EmployeeID, date generic.TimePoint) (*bonus.SeniorityHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failOnRead != nil {
		return nil, m.failOnRead
	}
	entries := m.history[id]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].EffectiveDate.BeforeOrEqual(date) {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Memory) CorporateObjectives(_ context.Context, year int) ([]bonus.CorporateObjective, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failOnRead != nil {
		return nil, m.failOnRead
	}
	result := make([]bonus.CorporateObjective, len(m.corporate[year]))
	copy(result, m.corporate[year])
	return result, nil
}

func (m *Memory) PersonalObjectives(_ context.Context, id bonus.EmployeeID, year int) ([]bonus.PersonalObjective, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failOnRead != nil {
		return nil, m.failOnRead
	}
	k := personalKey{EmployeeID: id, Year: year}
	result := make([]bonus.PersonalObjective, len(m.personal[k]))
	copy(result, m.personal[k])
	return result, nil
}

var _ bonus.Sources = (*Memory)(nil)
