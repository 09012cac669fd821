package pkg

import "sync"

type HasLocker interface{ GetLocker() *sync.Mutex }

func LockWrap(i HasLocker, f func()) {
	i.GetLocker().Lock()
	defer i.GetLocker().Unlock()
	f()
}

// TryLockWrap runs f only if the lock is free and reports whether it ran.
func TryLockWrap(i HasLocker, f func()) bool {
	if !i.GetLocker().TryLock() {
		return false
	}
	defer i.GetLocker().Unlock()
	f()
	return true
}
