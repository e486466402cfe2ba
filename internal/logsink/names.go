package logsink

import "fmt"

// keyNames covers the informative portion of the USB HID usage model the
// wire protocol's key codes follow: modifiers and a few named navigation
// keys. This table never affects control flow — it only makes diagnostic
// log lines readable.
var keyNames = map[byte]string{
	0x80: "LeftCtrl",
	0x81: "LeftShift",
	0x82: "LeftAlt",
	0x83: "LeftGUI",
	0x84: "RightCtrl",
	0x85: "RightShift",
	0x86: "RightAlt",
	0x87: "RightGUI",
	0xD7: "Right",
	0xD8: "Left",
	0xD9: "Down",
	0xDA: "Up",
}

// KeyName resolves a key code to a human-readable name. Codes outside the
// informative table render as a quoted character when printable ASCII and
// as their hex value otherwise.
func KeyName(code byte) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	if code >= 0x20 && code < 0x7f {
		return fmt.Sprintf("%q", rune(code))
	}
	return fmt.Sprintf("0x%02X", code)
}

// ButtonName renders a mouse button mask (bits may be OR'd together).
func ButtonName(mask byte) string {
	if mask == 0 {
		return "none"
	}
	name := ""
	if mask&0x01 != 0 {
		name += "LEFT|"
	}
	if mask&0x02 != 0 {
		name += "RIGHT|"
	}
	if mask&0x04 != 0 {
		name += "MIDDLE|"
	}
	if name == "" {
		return fmt.Sprintf("0x%02X", mask)
	}
	return name[:len(name)-1]
}
