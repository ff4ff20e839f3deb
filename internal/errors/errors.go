// Package errors provides the structured error type used across docskin and a
// collector for batching failures from concurrent build steps.
package errors

import (
	"errors"
	"sort"
	"sync"
)

// ErrorCollector gathers errors from concurrent workers.
type ErrorCollector struct {
	errors []error
	mutex  sync.Mutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make([]error, 0)}
}

// Add records err. Nil errors are ignored.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// Errors returns a copy of the collected errors, ordered by message.
func (ec *ErrorCollector) Errors() []error {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Error() < result[j].Error()
	})
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	return len(ec.errors) > 0
}

// Err joins everything collected, or returns nil.
func (ec *ErrorCollector) Err() error {
	errs := ec.Errors()
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
