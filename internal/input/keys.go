package input

import (
	"fmt"
	"strings"
)

// KeyEvent is a physical keyboard event as seen by a global hook.
type KeyEvent struct {
	VK   uint32 // virtual-key code
	Scan uint32 // hardware scan code
	Down bool   // false for key-up
}

// Code identifies a physical key: scan code in the high byte, virtual-key
// code in the low byte.
type Code uint32

// MakeCode builds the composite code for a scan/virtual-key pair.
func MakeCode(scan, vk uint32) Code {
	return Code((scan&0xff)<<8 | vk&0xff)
}

// Code returns the composite code of the event.
func (e KeyEvent) Code() Code { return MakeCode(e.Scan, e.VK) }

func (c Code) String() string { return fmt.Sprintf("%#06x", uint32(c)) }

type keyDef struct {
	scan, vk uint32
}

// US layout, scan code set 1.
var namedKeys = map[string]keyDef{
	"esc":   {0x01, 0x1b},
	"tab":   {0x0f, 0x09},
	"enter": {0x1c, 0x0d},
	"space": {0x39, 0x20},

	"1": {0x02, '1'}, "2": {0x03, '2'}, "3": {0x04, '3'}, "4": {0x05, '4'}, "5": {0x06, '5'},
	"6": {0x07, '6'}, "7": {0x08, '7'}, "8": {0x09, '8'}, "9": {0x0a, '9'}, "0": {0x0b, '0'},

	"q": {0x10, 'Q'}, "w": {0x11, 'W'}, "e": {0x12, 'E'}, "r": {0x13, 'R'}, "t": {0x14, 'T'},
	"y": {0x15, 'Y'}, "u": {0x16, 'U'}, "i": {0x17, 'I'}, "o": {0x18, 'O'}, "p": {0x19, 'P'},
	"a": {0x1e, 'A'}, "s": {0x1f, 'S'}, "d": {0x20, 'D'}, "f": {0x21, 'F'}, "g": {0x22, 'G'},
	"h": {0x23, 'H'}, "j": {0x24, 'J'}, "k": {0x25, 'K'}, "l": {0x26, 'L'},
	"z": {0x2c, 'Z'}, "x": {0x2d, 'X'}, "c": {0x2e, 'C'}, "v": {0x2f, 'V'}, "b": {0x30, 'B'},
	"n": {0x31, 'N'}, "m": {0x32, 'M'},

	"f1": {0x3b, 0x70}, "f2": {0x3c, 0x71}, "f3": {0x3d, 0x72}, "f4": {0x3e, 0x73},
	"f5": {0x3f, 0x74}, "f6": {0x40, 0x75}, "f7": {0x41, 0x76}, "f8": {0x42, 0x77},
	"f9": {0x43, 0x78}, "f10": {0x44, 0x79}, "f11": {0x57, 0x7a}, "f12": {0x58, 0x7b},
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
}

// ParseKey converts a key name ("esc", "P", "F9") to its composite code.
func ParseKey(name string) (Code, error) {
	k := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[k]; ok {
		k = alias
	}
	def, ok := namedKeys[k]
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return MakeCode(def.scan, def.vk), nil
}
