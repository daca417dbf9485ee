package pipeline

import "strings"

// Operators recognised by the lexer. They need no surrounding whitespace.
const (
	OpPipe        = "|"
	OpRedirectIn  = "<"
	OpHeredoc     = "<<"
	OpRedirectOut = ">"
	OpAppend      = ">>"
)

// Default limits applied when ParseOptions leaves them zero.
const (
	DefaultMaxStages = 16
	DefaultMaxArgs   = 128
)

// OutputType says where a stage's standard output goes.
type OutputType int

const (
	OutputNone           OutputType = iota // inherit the shell's stdout
	OutputPipe                             // feed the next stage
	OutputRedirect                         // > file
	OutputRedirectAppend                   // >> file
)

func (o OutputType) String() string {
	switch o {
	case OutputPipe:
		return "pipe"
	case OutputRedirect:
		return "redirect"
	case OutputRedirectAppend:
		return "append"
	default:
		return "none"
	}
}

// IsRedirect reports whether o sends output to a file.
func (o OutputType) IsRedirect() bool {
	return o == OutputRedirect || o == OutputRedirectAppend
}

// Command is one stage of a pipeline.
type Command struct {
	Name string
	Args []string // Args[0] == Name

	Output       OutputType
	RedirectPath string // target of > or >>
	InputPath    string // source of <, empty if none
	HeredocDelim string // delimiter of <<, empty if none
}

// Pipeline is an ordered list of stages joined by pipes.
type Pipeline struct {
	Commands []Command
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.Commands) }

// Names returns the command name of every stage.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.Commands))
	for i := range p.Commands {
		names[i] = p.Commands[i].Name
	}
	return names
}

// String renders the pipeline back in shell syntax.
func (p *Pipeline) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(strings.Join(c.Args, " "))
		if c.InputPath != "" {
			b.WriteString(" < " + c.InputPath)
		}
		if c.HeredocDelim != "" {
			b.WriteString(" << " + c.HeredocDelim)
		}
		switch c.Output {
		case OutputRedirect:
			b.WriteString(" > " + c.RedirectPath)
		case OutputRedirectAppend:
			b.WriteString(" >> " + c.RedirectPath)
		}
	}
	return b.String()
}
