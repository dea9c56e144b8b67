package story

import "sync"

// storyLocks 按故事 ID 加锁，无人持有时回收
type storyLocks struct {
	mu    sync.Mutex
	locks map[string]*storyLock
}

type storyLock struct {
	mu   sync.Mutex
	refs int
}

func newStoryLocks() *storyLocks {
	return &storyLocks{locks: make(map[string]*storyLock)}
}

// Lock 获取故事锁，返回解锁函数
func (l *storyLocks) Lock(id string) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &storyLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
