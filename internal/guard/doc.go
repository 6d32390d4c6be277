// Package guard bounds the wall-clock duration of blocking calls that
// cannot be cancelled cooperatively, such as native OCR engine
// invocations.
//
// A Guard dispatches the call on a worker goroutine and waits up to a
// configured timeout. If the bound is exceeded, the worker is abandoned
// (the underlying call keeps running) and any helper OS processes
// tracked by the injected ProcessInspector receive a best-effort
// terminate signal. This is advisory cancellation: the guard stops the
// caller from waiting, it does not stop in-process computation.
//
// Timeouts are wall-clock, not CPU-time. A heavily loaded system can
// therefore produce false-positive timeouts; this is accepted.
package guard
