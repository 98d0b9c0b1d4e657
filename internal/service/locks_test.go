package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocks_SerializesSameAccount(t *testing.T) {
	locks := newAccountLocks()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Acquire("JOH1234")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestAccountLocks_MultiAccountNoDeadlock(t *testing.T) {
	locks := newAccountLocks()

	// Opposite-direction acquisitions on the same pair. Without ordered
	// locking this would deadlock and the test would time out.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release := locks.Acquire("AAA1111", "BBB2222")
			release()
		}()
		go func() {
			defer wg.Done()
			release := locks.Acquire("BBB2222", "AAA1111")
			release()
		}()
	}
	wg.Wait()
}

func TestAccountLocks_DuplicateAccountsDeduped(t *testing.T) {
	locks := newAccountLocks()

	release := locks.Acquire("JOH1234", "JOH1234")
	release()

	// A second acquisition succeeds, so the first released cleanly.
	release = locks.Acquire("JOH1234")
	release()
}
