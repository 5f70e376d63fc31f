// Package mshr tracks the outstanding misses of one cache.
package mshr

import (
	"fmt"
)

// An Entry records one in-flight miss. Pending counts the accesses that
// wait for the miss to resolve, including the one that allocated the entry.
type Entry struct {
	Tag     uint64
	SetID   int
	Pending int
}

// MSHR records a cache's outstanding misses and coalesces duplicates.
// Entries are keyed by block tag; tags are unique within one cache.
type MSHR interface {
	Lookup(tag uint64) bool
	AddEntry(tag uint64, setID int) error
	Coalesce(tag uint64) error
	Entry(tag uint64) (Entry, bool)
	RemoveEntry(tag uint64) error
	IsFull() bool
	Reset()
}

// New creates a new MSHR.
func New(capacity int) MSHR {
	return &mshrImpl{
		Capacity: capacity,
		Entries:  make([]Entry, 0),
	}
}

type mshrImpl struct {
	Capacity int
	Entries  []Entry
}

func (m *mshrImpl) Lookup(tag uint64) bool {
	for _, e := range m.Entries {
		if e.Tag == tag {
			return true
		}
	}

	return false
}

func (m *mshrImpl) AddEntry(tag uint64, setID int) error {
	if m.Lookup(tag) {
		return fmt.Errorf("trying to add a tag that is already in MSHR")
	}

	if m.IsFull() {
		return fmt.Errorf("trying to add to a full MSHR")
	}

	entry := Entry{
		Tag:     tag,
		SetID:   setID,
		Pending: 1,
	}

	m.Entries = append(m.Entries, entry)

	return nil
}

func (m *mshrImpl) Coalesce(tag uint64) error {
	for i, e := range m.Entries {
		if e.Tag == tag {
			e.Pending++
			m.Entries[i] = e

			return nil
		}
	}

	return fmt.Errorf("trying to coalesce into a non-exist entry")
}

func (m *mshrImpl) Entry(tag uint64) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Tag == tag {
			return e, true
		}
	}

	return Entry{}, false
}

func (m *mshrImpl) RemoveEntry(tag uint64) error {
	for i, e := range m.Entries {
		if e.Tag == tag {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("trying to remove an non-exist entry")
}

func (m *mshrImpl) IsFull() bool {
	return len(m.Entries) >= m.Capacity
}

func (m *mshrImpl) Reset() {
	m.Entries = nil
}
