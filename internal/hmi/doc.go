// Package hmi implements the front (HMI) node of the door lock.
//
// The front node owns the keypad and the 2x16 display. It captures
// passwords, forwards them to the back node over a protocol.Channel and
// adopts whatever mode the back node reports. It never compares passwords
// itself.
//
// Mode handlers:
//
//	FirstBoot  capture twice, read the enrollment result
//	Locked     run the drive-loop until success or Alarm
//	MainMenu   wait for '+' (open door) or '-' (change password)
//	Alarm      show the error banner until the back node releases it
package hmi
