// Copyright 2021-2024 The httpstack Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be found in the
// LICENSE file

// Package stacktrace appends the caller's stack to errors returned by an
// asynchronous HTTP client.
//
// A request issued through httpclient fails on the client's dispatch
// goroutine, so the error's stack shows where the client built it and nothing
// about who asked for the request. Apply replaces every request-issuing method
// of a client with a proxy that captures a "topmost" error synchronously at the
// call site. When the request fails, the topmost stack is appended to the
// error's stack on a new line and the previous stack is kept in OriginalStack.
//
//	c := httpclient.New(&httpclient.Config{BaseURL: "http://localhost:9000"})
//	restore := stacktrace.Apply(c)
//	defer restore()
//
//	_, err := c.Patch("/test-endpoint", nil, nil).Await(ctx)
//	fmt.Printf("%v\n", err) // client stack, then "Error: Better Stacktrace" and the caller's frames
//
// Apply returns nil, and changes nothing, when the target exposes none of the
// recognized methods or is already patched. The error value is never
// replaced, so errors.Is and errors.As keep working on it.
//
// # Propagation
//
// With the direct-chain strategy every proxy chains its own completion onto
// the Future it returns. With the interceptor strategy the proxy only attaches
// the topmost error to Config.TopmostError and a single response interceptor,
// registered on the client at Apply time and ejected on restore, performs the
// augmentation. StrategyAuto picks the interceptor strategy when the client has
// a response interceptor chain and WithExposeTopmostErrorViaConfig is set.
//
// # Interceptor ordering
//
// Response interceptors run in registration order. Under the interceptor
// strategy, interceptors registered before Apply see the un-augmented error and
// can read Config.TopmostError (see TopmostErrorOf). Interceptors registered
// after Apply see the augmented error and, unless WithRetainTopmostError is
// set, no TopmostError. An earlier interceptor that recovers the failure, or
// replaces the error with one that carries no request configuration, prevents
// augmentation altogether. Under the direct-chain strategy augmentation always
// runs last, after every interceptor of the client.
package stacktrace
