// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package parallel is a utility package for running parallel/concurrent tasks.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Invoke runs the given callbacks concurrently. All the callbacks are run in a
// child of 'ctx'. If any of the callbacks returns an error, Invoke cancels this
// child context, waits for the remaining callbacks to complete, and returns the
// first error. Otherwise, Invoke waits for all the callbacks to complete, then
// returns nil.
func Invoke(ctx context.Context, calls ...func(ctx context.Context) error) error {
	return InvokeN(ctx, len(calls), 0,
		func(ctx context.Context, i int) error {
			return calls[i](ctx)
		})
}

// InvokeN runs the given callback 'n' times, with i=0, i=1, ..., i=n-1, in a
// child of 'ctx'. At most 'limit' callbacks run at once; a limit of zero or
// less means runtime.GOMAXPROCS(0). If any of the callbacks returns an error,
// InvokeN cancels the child context, waits for the started callbacks to
// complete, and returns the first error. Callbacks that haven't started by
// then are still called, with the cancelled context.
func InvokeN(ctx context.Context, n, limit int, call func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i := 0; i < n; i++ {
		group.Go(func() error {
			return call(ctx, i)
		})
	}
	return group.Wait()
}

// Map calls 'call' for i=0, i=1, ..., i=n-1 concurrently, bounded by 'limit'
// as in InvokeN, and returns the results in index order. If any call fails, it
// returns the first error and no results.
func Map[T any](ctx context.Context, n, limit int, call func(ctx context.Context, i int) (T, error)) ([]T, error) {
	res := make([]T, n)
	err := InvokeN(ctx, n, limit, func(ctx context.Context, i int) error {
		var err error
		res[i], err = call(ctx, i)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
