package worker

import (
	"context"
	"sync"
)

// Pool fans independent units of work out over a fixed number of workers.
// Units must not share mutable state; the pool only guarantees that every
// scheduled unit finishes before ForEach returns.
type Pool struct {
	size int
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size}
}

// ForEach runs fn for indices 0..n-1 on the pool's workers. Cancellation is
// honored at unit boundaries: in-flight units finish, no new unit starts
// after ctx is done. Returns ctx.Err() if the run was cut short.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if n <= 0 {
		return nil
	}

	idx := make(chan int)
	var wg sync.WaitGroup

	workers := p.size
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				fn(ctx, i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case idx <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(idx)
	wg.Wait()
	return err
}
