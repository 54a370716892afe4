package transfer

import (
	"sort"
	"sync"
)

// accountLocker serializes transfer processing per account. Locks are
// acquired in ascending account-number order so a transfer touching two
// accounts can never deadlock against the opposite transfer.
//
// Mutexes are created on first use and kept for the life of the process;
// the account space is bounded by the client table, so this does not grow
// without limit.
type accountLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocker() *accountLocker {
	return &accountLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocker) lockFor(accountNumber string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[accountNumber]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountNumber] = lock
	}

	return lock
}

// Lock acquires the locks for the given account numbers and returns the
// function that releases them. Empty and duplicate numbers are ignored.
func (l *accountLocker) Lock(accountNumbers ...string) func() {
	unique := make([]string, 0, len(accountNumbers))
	seen := make(map[string]bool, len(accountNumbers))

	for _, number := range accountNumbers {
		if number == "" || seen[number] {
			continue
		}
		seen[number] = true
		unique = append(unique, number)
	}

	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, number := range unique {
		lock := l.lockFor(number)
		lock.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
