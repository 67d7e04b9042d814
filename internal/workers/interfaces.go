// Package workers bounds how many memory-hard key derivations run at once.
//
// Every derivation costs the configured Argon2id memory, so unbounded
// concurrency turns a burst of open requests into a memory spike. A [Pool]
// admits at most its size of jobs concurrently; the rest wait for a slot.
package workers

import "context"

// Runner is the interface that must be implemented by anything that runs
// derivation jobs on behalf of the service layer.
//
// Do blocks until a slot is free or ctx is done, then runs job on the
// calling goroutine. A job that has started always runs to completion.
//
// DoAll runs jobs concurrently, each admitted like Do, and returns the first
// error.
type Runner interface {
	Do(ctx context.Context, job func() error) error
	DoAll(ctx context.Context, jobs ...func() error) error
}
