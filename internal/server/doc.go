// Package server provides HTTP routing, middleware, and the JSON API over the guitar collection.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; routes are method-qualified patterns
// such as "PATCH /api/guitars/{id}", so the mux itself answers 405 for a known path with the wrong method.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [GuitarHandler] and [ServiceRecordHandler] dispatch on [http.Request.Pattern].
//
// # Errors
//
// Handlers return errors instead of writing them. Validation failures become 400, not-found errors 404,
// and anything else is logged with its request id and reported as 500 "operation failed".
//
// # Middleware
//
//   - [RequestID] assigns or propagates X-Request-ID
//   - [Logging] writes one line per request
//   - [Recover] converts panics into 500 responses
//   - [RateLimit] applies a token bucket and answers 429 when it is empty
package server
