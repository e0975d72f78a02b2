// Package panel is the front node's user interface: a keypad for input and a
// two-line character display for output.
//
// The keypad reports one key per press. Numeric keys may arrive as raw
// values 0 to 9; TranslateKey turns them into ASCII digits so that a zero
// key is never mistaken for a string terminator. Symbol keys such as '+'
// and '-' pass through unchanged.
//
// TextDisplay models a 2x16 character LCD with a cursor. It can render every
// change to a terminal, which is how the front node runs on a bench.
package panel
