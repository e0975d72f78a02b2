// Package control implements the back node of the door lock: the half that
// owns the enrolled password, decides every authentication, and drives the
// door motor and alarm buzzer.
//
// The node is a mode machine over a protocol.Channel. Each mode handler
// performs one complete exchange with the front node and returns the next
// mode; Run dispatches on the current mode until its context is cancelled.
//
//	FirstBoot  receive two captures, compare, answer Sync+Success or Sync+Error
//	Locked     bounded authentication towards MainMenu
//	MainMenu   receive a request, authenticate, then open the door or re-enroll
//	Alarm      sound the buzzer, then report MainMenu with Sync+mode
//
// Authentication allows exactly protocol.MaxTries attempts. Each answer is a
// status byte followed by the mode the back node moved to, and the front
// node adopts that mode, so both halves agree whenever no exchange is in
// flight.
//
// The node never sends unprompted: every byte it writes answers a Sync from
// the front node, except the Sync markers that close the door sequence and
// the alarm.
package control
