// Package actuator drives the back node's door motor and alarm buzzer.
//
// Motor and Buzzer are the only outputs the control node needs. Two
// drivers are provided:
//
//   - Log drivers record each command in the structured log (bench use)
//   - MQTT drivers publish each command to a GPIO bridge topic
//
// Commands are fire-and-forget: the door sequence does not wait for the
// bridge to confirm a command, matching a motor wired straight to GPIO.
package actuator
