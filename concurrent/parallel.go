package concurrent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bggapi/utils"

	"github.com/sirupsen/logrus"
)

// Task is one named unit of work run by RunAll.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunAll runs every task in its own goroutine and waits for all of them.
// The returned error joins the failures of every task, each prefixed with
// the task name. A task that never returns blocks RunAll until it does, so
// tasks must honour ctx.
func RunAll(ctx context.Context, tasks ...Task) error {
	errChan := make(chan error, len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, task := range tasks {
		go func(task Task) {
			defer wg.Done()
			if err := task.Run(ctx); err != nil {
				errChan <- fmt.Errorf("%s: %w", task.Name, err)
			}
		}(task)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Retry calls fn up to attempts times, sleeping backoff before the second
// attempt and doubling it after each failure. It gives up early when ctx is
// done and returns the last error.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		utils.Log.WithFields(logrus.Fields{
			"attempt": attempt,
			"of":      attempts,
			"retry":   backoff.String(),
			"error":   err.Error(),
		}).Warn("Attempt failed, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
	return err
}
