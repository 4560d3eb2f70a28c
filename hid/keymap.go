package hid

// Keycode constants for keys that commands refer to by name.
const (
	KeycodeReturn Keycode = 40
	KeycodeTab    Keycode = 43
	KeycodeSpace  Keycode = 44
)

// keycodeMap maps characters to USB HID keyboard usage IDs (usage page
// 0x07). Only unshifted keys are mapped; characters that need a modifier
// are rejected by TextEvents.
var keycodeMap = map[rune]Keycode{
	'\n': KeycodeReturn,
	'\t': KeycodeTab,
	' ':  KeycodeSpace,
	'-':  45,
	'=':  46,
	'[':  47,
	']':  48,
	'\\': 49,
	';':  51,
	'\'': 52,
	'`':  53,
	',':  54,
	'.':  55,
	'/':  56,
}

func init() {
	for r := 'a'; r <= 'z'; r++ {
		keycodeMap[r] = Keycode(4 + r - 'a')
	}
	for r := '1'; r <= '9'; r++ {
		keycodeMap[r] = Keycode(30 + r - '1')
	}
	keycodeMap['0'] = 39
}

// KeycodeForRune returns the keycode for a character, if one is mapped.
func KeycodeForRune(r rune) (Keycode, bool) {
	code, ok := keycodeMap[r]
	return code, ok
}
