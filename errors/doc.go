// Copyright 2021-2024 The httpstack Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be found in the
// LICENSE file

// Package errors provides an error type with a stacktrace and its associated error handling functions.
// Every error created here renders a textual stack (see StackError) that may be rewritten after the
// fact, which is what lets an asynchronous HTTP client's failures carry the stack of the goroutine
// that issued the request in addition to the goroutine that built the error.
// The package is fully compatible with the standard library. It also supports warnings.

package errors
