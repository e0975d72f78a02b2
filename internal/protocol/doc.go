// Package protocol defines the wire vocabulary shared by the front (HMI) and
// back (control) nodes of the door lock.
//
// The two nodes talk over a byte-oriented serial link that has no framing,
// acknowledgement or timeout of its own. Everything the nodes agree on lives
// here:
//
//   - Control bytes: the Sync marker, Success/Error status bytes and the two
//     request codes (open door, change password)
//   - Mode codes, which double as the status byte a node adopts after an exchange
//   - Password framing: five characters followed by the '#' terminator
//
// # Synchronisation
//
// Every multi-step exchange starts with the sender emitting Sync and the
// receiver discarding bytes until it observes that exact value (WaitSync).
// This is the only resynchronisation primitive in the system. There is no
// timeout: a receiver that never sees Sync blocks until its context is
// cancelled, mirroring the hardware where only a reset recovers the link.
//
// # Channels
//
// Channel is the narrow interface both node state machines consume. It is
// satisfied by:
//
//   - StreamChannel, wrapping any io.ReadWriter such as a UART
//   - Pipe, an in-memory pair for running both nodes in one process
//   - protocoltest.Script, a finite scripted peer for conformance tests
package protocol
