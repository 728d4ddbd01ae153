package widget

import "sync"

// NoticeBuffer collects notices raised on any goroutine until a UI loop
// drains them.
type NoticeBuffer struct {
	mu    sync.Mutex
	items []Notice
}

func (b *NoticeBuffer) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
}

// Drain returns and clears the buffered notices.
func (b *NoticeBuffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}
