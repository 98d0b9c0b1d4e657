package service

import (
	"sort"
	"sync"
)

// accountLocks serializes mutating operations per account number.
// Multi-account acquisitions take the mutexes in lexicographic order so
// two concurrent transfers over the same pair cannot deadlock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for an account, creating it on first use.
// Mutexes are never evicted; the set of live account numbers is small
// enough that this is not worth a refcounting scheme.
func (l *accountLocks) get(accountNumber string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[accountNumber]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountNumber] = m
	}
	return m
}

// Acquire locks every given account (duplicates collapsed) in
// lexicographic order and returns a release function that unlocks them
// in reverse order.
func (l *accountLocks) Acquire(accountNumbers ...string) (release func()) {
	unique := make([]string, 0, len(accountNumbers))
	seen := make(map[string]struct{}, len(accountNumbers))
	for _, accNo := range accountNumbers {
		if _, dup := seen[accNo]; dup {
			continue
		}
		seen[accNo] = struct{}{}
		unique = append(unique, accNo)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, accNo := range unique {
		m := l.get(accNo)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
