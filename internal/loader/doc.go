// Package loader runs a manifest through the two-goroutine loading handshake.
//
// A Worker owns the manifest cursor and runs on a background goroutine. The
// Controller runs on the caller's goroutine, owns the display and the
// progress counters, and drives the Worker one request at a time:
//
//	Controller                 Worker
//	    | ---- request ---------> |
//	    | <--- LoadItem(1) ------ |
//	    |  (load, publish, draw)  |
//	    | ---- request ---------> |
//	    | <--- Done ------------- |
//	    |  (stop, close, notify)  |
//
// At most one request is ever outstanding, so items arrive in manifest order
// with sequence numbers 1..N and Done arrives exactly once after the last one.
package loader
