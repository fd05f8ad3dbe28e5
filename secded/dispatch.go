package secded

import (
	"context"
	"io"
	"sync"
)

type job struct {
	index int
	data  []byte
}

type result struct {
	index int
	out   []byte
	err   error
}

// dispatch pulls items from next until io.EOF, runs work on them with the
// given number of workers and hands the outputs to emit in input order.
// Each worker index is stable so callers can keep per-worker state.
//
// On an early return dispatch does not wait for a next call in flight: the
// reading goroutine exits once next returns. Callers reading from a source
// that may block indefinitely close it to release that goroutine.
func dispatch(
	ctx context.Context,
	workers int,
	next func() ([]byte, error),
	work func(worker, index int, in []byte) ([]byte, error),
	emit func(index int, out []byte) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job, workers)
	results := make(chan result, workers)
	readErr := make(chan error, 1)

	go func() {
		defer close(jobs)
		for index := 0; ; index++ {
			data, err := next()
			if err == io.EOF {
				readErr <- nil
				return
			}
			if err != nil {
				readErr <- err
				return
			}
			select {
			case jobs <- job{index: index, data: data}:
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range jobs {
				out, err := work(worker, j.index, j.data)
				select {
				case results <- result{index: j.index, out: out, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}(w)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]result)
	nextIndex := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-results:
			if !ok {
				if err := <-readErr; err != nil {
					return err
				}
				return ctx.Err()
			}
			pending[r.index] = r
			for {
				p, ok := pending[nextIndex]
				if !ok {
					break
				}
				delete(pending, nextIndex)
				if p.err != nil {
					return p.err
				}
				if err := emit(p.index, p.out); err != nil {
					return err
				}
				nextIndex++
			}
		}
	}
}
