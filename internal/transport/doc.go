// Package transport moves bytes between the controller and the modem over a
// serial line.
//
// Writes are synchronous. Receives are asynchronous: the foreground arms a
// receive, a reader goroutine fills a fixed buffer while the receive is armed
// and publishes it once the line goes idle or the buffer fills up, and the
// foreground polls for that publication. Bytes that arrive while no receive
// is armed are dropped.
package transport
