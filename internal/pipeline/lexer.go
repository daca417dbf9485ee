package pipeline

import "unicode"

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

// lex splits a line into words and operators. Words are separated by
// whitespace; |, <, <<, > and >> always stand alone. There is no quoting.
func lex(line string) []token {
	var toks []token
	var word []rune
	flush := func() {
		if len(word) > 0 {
			toks = append(toks, token{tokWord, string(word)})
			word = word[:0]
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '|':
			flush()
			toks = append(toks, token{tokOp, OpPipe})
		case r == '<' || r == '>':
			flush()
			op := string(r)
			if i+1 < len(runes) && runes[i+1] == r {
				op += string(r)
				i++
			}
			toks = append(toks, token{tokOp, op})
		default:
			word = append(word, r)
		}
	}
	flush()
	return toks
}

// expandAliases replaces the first word of each stage with its alias
// value. Expansion is a single level: words produced by an alias are not
// looked up again.
func expandAliases(toks []token, lookup func(string) (string, bool)) []token {
	if lookup == nil {
		return toks
	}
	out := make([]token, 0, len(toks))
	commandPos := true
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokOp {
			out = append(out, t)
			if t.text == OpPipe {
				commandPos = true
				continue
			}
			// A redirection target never names a command.
			if i+1 < len(toks) && toks[i+1].kind == tokWord {
				out = append(out, toks[i+1])
				i++
			}
			continue
		}
		if commandPos {
			commandPos = false
			if v, ok := lookup(t.text); ok {
				out = append(out, lex(v)...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
