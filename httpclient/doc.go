// Package httpclient is a promise-style asynchronous HTTP client.
//
// Every request-issuing method returns a *Future immediately and performs the
// exchange on its own goroutine, so a failure is constructed on that goroutine
// and its trace carries none of the caller's frames. The methods are held in a
// replaceable method table (see MethodTable) and responses flow through a
// shared interceptor chain, which is what package stacktrace hooks into.
//
//	c := httpclient.New(&httpclient.Config{BaseURL: "http://localhost:9000"})
//	resp, err := c.Get("/users/1", nil).Await(ctx)
//
// Transport and retries are delegated to go-retryablehttp. Retries are off by
// default; see WithRetry.
package httpclient
