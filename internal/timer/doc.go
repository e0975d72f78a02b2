// Package timer provides the tick timer collaborator and the blocking
// seconds-granularity delay built on top of it.
//
// On the original hardware a compare-match interrupt fires once per period
// and a callback counts interrupts. Here the same shape is kept behind the
// Timer interface:
//
//   - TickerTimer drives the callback from a time.Ticker goroutine
//   - Fake lets tests fire ticks by hand (or continuously with auto mode)
//
// Delayer is the only consumer. Its Seconds method computes the tick count,
// resets and starts the timer, polls a flag raised by the callback, then
// stops the timer and clears the flag. Nothing else runs on the calling
// goroutine while it waits.
package timer
