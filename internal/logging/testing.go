package logging

import (
	"bytes"
	"context"
	"sync"
)

// Buffer collects log output written from several goroutines.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestContext returns a context whose logger, configured by flags, writes
// to the returned buffer.
func NewTestContext(flags Flags) (context.Context, *Buffer) {
	buf := &Buffer{}
	return WithLogger(context.Background(), New(buf, flags)), buf
}
