package config

import "strings"

const badFileName = "_bad_file_name_"

// SafeFileName makes name usable as a single path element on this system.
// Control characters and characters the file system reserves are dropped.
func SafeFileName(name string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < ' ' || strings.ContainsRune(reservedFileChars, sym) {
			return -1
		}
		return sym
	}, name)
	out = fixFileName(out)
	if len(out) == 0 {
		out = badFileName
	}
	return out
}
