package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ListingsSignal is the cross-process analog of the browser's
// "jobListingsUpdated" storage key: any job or application mutation touches
// it, and independent views resynchronize when it changes.
type ListingsSignal interface {
	// Notify records that listings changed.
	Notify()
	// Subscribe delivers one tick per observed change until ctx is done.
	Subscribe(ctx context.Context) <-chan struct{}
}

const signalFile = "listings_updated"

// FileSignal implements ListingsSignal over a timestamp file, observed by
// polling. Separate processes (CLI and web UI) see each other's writes.
type FileSignal struct {
	dir      string
	interval time.Duration
}

var _ ListingsSignal = (*FileSignal)(nil)

func NewFileSignal(dir string, interval time.Duration) *FileSignal {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileSignal{dir: dir, interval: interval}
}

func (s *FileSignal) path() string {
	return filepath.Join(s.dir, signalFile)
}

func (s *FileSignal) Notify() {
	stamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	// Best effort; a missed signal only delays a refresh.
	_ = os.WriteFile(s.path(), []byte(stamp), 0o600)
}

func (s *FileSignal) read() string {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *FileSignal) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		last := s.read()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current := s.read()
				if current != last {
					last = current
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return ch
}

// MemorySignal is an in-process ListingsSignal for tests and for views
// sharing one process.
type MemorySignal struct {
	mu   sync.Mutex
	subs []chan struct{}
}

var _ ListingsSignal = (*MemorySignal)(nil)

func NewMemorySignal() *MemorySignal {
	return &MemorySignal{}
}

func (s *MemorySignal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *MemorySignal) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}()
	return ch
}
