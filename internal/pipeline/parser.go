package pipeline

import (
	"errors"
	"fmt"
)

// Parse error kinds, matched with errors.Is.
var (
	ErrEmptyLine        = errors.New("empty line")
	ErrEmptyStage       = errors.New("empty pipeline stage")
	ErrMissingTarget    = errors.New("missing redirection target")
	ErrMissingDelimiter = errors.New("missing heredoc delimiter")
	ErrTooManyStages    = errors.New("too many pipeline stages")
	ErrTooManyArgs      = errors.New("too many arguments")
)

// ParseError describes why a line could not be turned into a pipeline.
type ParseError struct {
	Kind error
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

func (e *ParseError) Unwrap() error { return e.Kind }

func parseErr(kind error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ParseOptions bounds the parser and supplies alias expansion.
type ParseOptions struct {
	MaxStages int // default DefaultMaxStages
	MaxArgs   int // per stage, default DefaultMaxArgs

	// Alias returns the replacement text for the first word of a stage.
	Alias func(name string) (string, bool)
}

// Parse turns a command line into a Pipeline. A line with no words yields
// ErrEmptyLine. Limits are enforced as errors; nothing is truncated.
func Parse(line string, opts ParseOptions) (*Pipeline, error) {
	maxStages := opts.MaxStages
	if maxStages <= 0 {
		maxStages = DefaultMaxStages
	}
	maxArgs := opts.MaxArgs
	if maxArgs <= 0 {
		maxArgs = DefaultMaxArgs
	}

	toks := expandAliases(lex(line), opts.Alias)
	if len(toks) == 0 {
		return nil, ErrEmptyLine
	}

	p := &Pipeline{}
	var cur Command
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokWord {
			if len(cur.Args) >= maxArgs {
				return nil, parseErr(ErrTooManyArgs, "too many arguments (max %d)", maxArgs)
			}
			cur.Args = append(cur.Args, t.text)
			continue
		}

		if t.text == OpPipe {
			if len(cur.Args) == 0 {
				return nil, parseErr(ErrEmptyStage, "syntax error: missing command before %s", OpPipe)
			}
			if len(p.Commands)+1 >= maxStages {
				return nil, parseErr(ErrTooManyStages, "too many pipeline stages (max %d)", maxStages)
			}
			if cur.Output == OutputNone {
				cur.Output = OutputPipe
			}
			p.Commands = append(p.Commands, finish(cur))
			cur = Command{}
			continue
		}

		if i+1 >= len(toks) || toks[i+1].kind != tokWord {
			if t.text == OpHeredoc {
				return nil, parseErr(ErrMissingDelimiter, "syntax error: missing delimiter after %s", t.text)
			}
			return nil, parseErr(ErrMissingTarget, "syntax error: missing filename after %s", t.text)
		}
		i++
		operand := toks[i].text
		switch t.text {
		case OpRedirectOut:
			cur.Output = OutputRedirect
			cur.RedirectPath = operand
		case OpAppend:
			cur.Output = OutputRedirectAppend
			cur.RedirectPath = operand
		case OpRedirectIn:
			cur.InputPath = operand
		case OpHeredoc:
			cur.HeredocDelim = operand
		}
	}

	if len(cur.Args) == 0 {
		if len(p.Commands) > 0 {
			return nil, parseErr(ErrEmptyStage, "syntax error: missing command after %s", OpPipe)
		}
		return nil, parseErr(ErrEmptyStage, "syntax error: missing command")
	}
	p.Commands = append(p.Commands, finish(cur))
	return p, nil
}

func finish(c Command) Command {
	c.Name = c.Args[0]
	return c
}
