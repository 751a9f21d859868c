package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/alnah/go-pdfbook/internal/config"
)

// ErrInvalidWorkerCount is returned for out-of-range --workers values.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// resolveWorkers determines the batch concurrency.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for
// containers), never more than the number of jobs.
func resolveWorkers(requested, jobs int) int {
	n := requested
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > config.MaxWorkers {
		n = config.MaxWorkers
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
