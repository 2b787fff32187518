package core

import (
	"errors"
	"fmt"
	"sync"
)

const (
	MAX_CONCURRENT_API_CALLS = 40
)

var (
	RequestLimiter = make(chan struct{}, MAX_CONCURRENT_API_CALLS)
)

// RunWithRateLimitedConcurrency runs fn while holding a slot of the shared
// limiter. The slot is released even if fn panics.
func RunWithRateLimitedConcurrency(fn func()) {
	RequestLimiter <- struct{}{}
	defer func() { <-RequestLimiter }()
	fn()
}

// Parallel runs every fn through the limiter and returns the first error.
func Parallel(fns ...func() error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RunWithRateLimitedConcurrency(func() {
				if err := fn(); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			})
		}()
	}
	wg.Wait()
	return firstErr
}

func IsMissing(str string) bool {
	return len(str) == 0
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("%w: required param [%v] is missing", ErrInvalidInput, paramName)
}

var (
	ErrUnknownFlow  = errors.New("unsupported flow")
	ErrInvalidInput = errors.New("invalid flow input")
)
