package guard

import (
	"database/sql"
	"io"
	"os"
	"sync"
)

// Adapter constructors for common teardown patterns. Each returns an armed
// Guard whose action discards the resource's error return. Callers that need
// to observe a Close error should call Close explicitly on the success path
// and route it through the same Guard, so the unwind fire becomes a no-op.

// Closing returns a guard that closes c.
func Closing(c io.Closer) *Guard {
	return New(func() { _ = c.Close() })
}

// Unlocking returns a guard that unlocks l. Declare it immediately after
// taking the lock:
//
//	mu.Lock()
//	defer guard.Unlocking(&mu).Run()
func Unlocking(l sync.Locker) *Guard {
	return New(l.Unlock)
}

// Removing returns a guard that removes path and everything below it.
// Useful for staging directories created with os.MkdirTemp.
func Removing(path string) *Guard {
	return New(func() { _ = os.RemoveAll(path) })
}

// RollingBack returns a guard that rolls tx back. After a successful Commit
// the rollback fires anyway and fails; database/sql reports ErrTxDone for
// that case and the guard discards it, so the commit stands. This gives the
// usual pattern:
//
//	tx, err := db.Begin()
//	if err != nil {
//	    return err
//	}
//	defer guard.RollingBack(tx).Run()
//	// ... statements ...
//	return tx.Commit()
func RollingBack(tx *sql.Tx) *Guard {
	return New(func() { _ = tx.Rollback() })
}
