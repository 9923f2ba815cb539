package repository

import (
	"slices"
	"sort"

	"go.trai.ch/obr/internal/core/domain"
)

// Entry is one resource of a VersionMap together with the version it is keyed by.
type Entry struct {
	Version  domain.Version
	Resource *domain.Resource
}

// VersionMap holds resources in ascending version order. Putting a version that is already
// present replaces the previous resource.
type VersionMap struct {
	entries []Entry
}

// Put inserts res under v.
func (m *VersionMap) Put(v domain.Version, res *domain.Resource) {
	i, found := slices.BinarySearchFunc(m.entries, v, func(e Entry, target domain.Version) int {
		return e.Version.Compare(target)
	})
	if found {
		m.entries[i].Resource = res
		return
	}
	m.entries = slices.Insert(m.entries, i, Entry{Version: v, Resource: res})
}

// Len returns the number of versions.
func (m *VersionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of all entries in ascending order.
func (m *VersionMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// Versions returns the keys in ascending order.
func (m *VersionMap) Versions() []domain.Version {
	versions := make([]domain.Version, 0, m.Len())
	if m == nil {
		return versions
	}
	for _, e := range m.entries {
		versions = append(versions, e.Version)
	}
	return versions
}

// Get returns the resource stored exactly under v.
func (m *VersionMap) Get(v domain.Version) (*domain.Resource, bool) {
	if m == nil {
		return nil, false
	}
	i, found := slices.BinarySearchFunc(m.entries, v, func(e Entry, target domain.Version) int {
		return e.Version.Compare(target)
	})
	if !found {
		return nil, false
	}
	return m.entries[i].Resource, true
}

// Highest returns the entry with the highest version.
func (m *VersionMap) Highest() (Entry, bool) {
	if m.Len() == 0 {
		return Entry{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// seek returns the index of the first entry not below v.
func (m *VersionMap) seek(v domain.Version) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Version.Compare(v) >= 0
	})
}
