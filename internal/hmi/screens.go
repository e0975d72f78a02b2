package hmi

import "github.com/h4z3m/SecuritySystem-Atmega16/internal/panel"

// Screen texts, row 0 and row 1.
var (
	screenEnroll        = [panel.Rows]string{"Please enter", "new pass: "}
	screenReenroll      = [panel.Rows]string{"Please re-enter", "new pass: "}
	screenMainMenu      = [panel.Rows]string{"+ : Open door", "- : Change pass"}
	screenDoorUnlocking = [panel.Rows]string{"Door is", "unlocking..."}
	screenDoorLocking   = [panel.Rows]string{"Door is", "locking..."}
)

const (
	promptPassword = "Enter pass: "
	bannerAlarm    = "   !!!ERROR!!!"
	echoChar       = "*"
)

// show clears d and writes both rows. The cursor is left after row 1.
func show(d panel.Display, s [panel.Rows]string) {
	d.Clear()
	d.WriteAt(0, 0, s[0])
	d.WriteAt(1, 0, s[1])
}
