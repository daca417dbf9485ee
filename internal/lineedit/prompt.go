// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package lineedit

import "unicode/utf8"

// Markers bracketing prompt text that takes up no columns.
const (
	InvisibleStart = '\001'
	InvisibleEnd   = '\002'
)

// PromptWidth returns the number of columns prompt occupies on screen.
// ANSI CSI and OSC sequences and \001...\002 regions are not counted.
func PromptWidth(prompt string) int {
	width := 0
	for i := 0; i < len(prompt); {
		c := prompt[i]
		switch {
		case c == InvisibleStart:
			i++
			for i < len(prompt) && prompt[i] != InvisibleEnd {
				i++
			}
			i++
		case c == 0x1b && i+1 < len(prompt) && prompt[i+1] == '[':
			// CSI: parameters and intermediates, then a final byte in @..~.
			i += 2
			for i < len(prompt) && (prompt[i] < 0x40 || prompt[i] > 0x7e) {
				i++
			}
			i++
		case c == 0x1b && i+1 < len(prompt) && prompt[i+1] == ']':
			// OSC: terminated by BEL or ESC \.
			i += 2
			for i < len(prompt) {
				if prompt[i] == 0x07 {
					i++
					break
				}
				if prompt[i] == 0x1b && i+1 < len(prompt) && prompt[i+1] == '\\' {
					i += 2
					break
				}
				i++
			}
		case c == InvisibleEnd:
			i++
		default:
			_, size := utf8.DecodeRuneInString(prompt[i:])
			i += size
			width++
		}
	}
	return width
}
