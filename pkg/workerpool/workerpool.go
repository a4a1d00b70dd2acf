// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"sync"
)

// ProcessN runs a worker pool over the index range [0, count), invoking
// process for each index. If process returns an error, the pool cancels the
// context and stops handing out further work.
func ProcessN(
	ctx context.Context,
	workerCount int,
	count int,
	process func(context.Context, int) error,
) error {
	if count <= 0 {
		return nil
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > count {
		workerCount = count
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan int, workerCount)
	errs := make(chan error, workerCount)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-tasks:
					if !ok {
						return
					}
					if err := process(ctx, idx); err != nil {
						select {
						case errs <- err:
						default:
						}
						cancel()
						return
					}
				}
			}
		}()
	}

	go func() {
		for i := 0; i < count; i++ {
			select {
			case <-ctx.Done():
				close(tasks)
				return
			case tasks <- i:
			}
		}
		close(tasks)
	}()

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	return ctx.Err()
}
