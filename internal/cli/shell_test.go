package cli

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/config"
)

type notTTY struct{}

func (notTTY) IsTerminal() bool                { return false }
func (notTTY) MakeRaw() (func() error, error) { return nil, errors.New("not a terminal") }

type testEnv struct {
	sh      *Shell
	dir     string
	home    string
	errPath string
	cfg     *config.Config
}

func tempFile(t *testing.T, name, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func newEnv(t *testing.T, input string, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.History.Path = filepath.Join(t.TempDir(), "history.jsonl")
	}
	home := t.TempDir()
	dir := filepath.Join(home, "work")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	in := tempFile(t, "stdin", input)
	out := tempFile(t, "stdout", "")
	errOut := tempFile(t, "stderr", "")

	sh, err := New(Options{
		Config:  cfg,
		Dir:     dir,
		Environ: []string{"PATH=" + os.Getenv("PATH"), "HOME=" + home},
		In:      in,
		Out:     out,
		Err:     errOut,
		Term:    notTTY{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{sh: sh, dir: dir, home: home, errPath: errOut.Name(), cfg: cfg}
}

func (e *testEnv) stderr(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.errPath)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

func TestRunLineStatus(t *testing.T) {
	requireTools(t, "true", "false")
	env := newEnv(t, "", nil)
	sh := env.sh

	if got := sh.RunLine("false"); got != 1 {
		t.Errorf("false = %d", got)
	}
	if got := sh.RunLine("   "); got != 1 {
		t.Errorf("empty line should keep last status, got %d", got)
	}
	if got := sh.RunLine("true | false"); got != 1 {
		t.Errorf("true | false = %d", got)
	}
	if got := sh.RunLine("true"); got != 0 {
		t.Errorf("true = %d", got)
	}
	if got := sh.RunLine("| true"); got != StatusSyntaxError {
		t.Errorf("syntax error status = %d", got)
	}
	if !strings.Contains(env.stderr(t), "gosh: syntax error: missing command before |") {
		t.Errorf("stderr = %q", env.stderr(t))
	}
	if got := sh.RunLine("no-such-command-xyz"); got != 127 {
		t.Errorf("not found = %d", got)
	}
	if sh.Session().LastStatus != 127 {
		t.Errorf("LastStatus = %d", sh.Session().LastStatus)
	}
}

func TestRunLineUsesConfiguredAliases(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Persist = false
	cfg.Aliases = map[string]string{"greet": "echo hello"}
	env := newEnv(t, "", cfg)

	if got := env.sh.RunLine("greet world > out.txt"); got != 0 {
		t.Fatalf("status = %d", got)
	}
	if got := env.read(t, "out.txt"); got != "hello world\n" {
		t.Errorf("out.txt = %q", got)
	}
}

func TestInteractiveRunsUntilExit(t *testing.T) {
	script := strings.Join([]string{
		"mkdir sub",
		"cd sub",
		"pwd > where.txt",
		"exit 3",
		"echo never > never.txt",
	}, "\n") + "\n"
	requireTools(t, "mkdir")
	env := newEnv(t, script, nil)

	if got := env.sh.Interactive(); got != 3 {
		t.Errorf("exit status = %d, want 3", got)
	}
	sub := filepath.Join(env.dir, "sub")
	data, err := os.ReadFile(filepath.Join(sub, "where.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != sub {
		t.Errorf("pwd = %q, want %q", data, sub)
	}
	if _, err := os.Stat(filepath.Join(sub, "never.txt")); !os.IsNotExist(err) {
		t.Error("lines after exit must not run")
	}
}

func TestInteractiveEOFReturnsLastStatus(t *testing.T) {
	requireTools(t, "false")
	env := newEnv(t, "echo ok > ok.txt\nfalse", nil)
	if got := env.sh.Interactive(); got != 1 {
		t.Errorf("status = %d, want 1", got)
	}
	if env.read(t, "ok.txt") != "ok\n" {
		t.Error("first line did not run")
	}
}

func TestInteractiveHeredocSharesInput(t *testing.T) {
	requireTools(t, "cat")
	env := newEnv(t, "cat << END > body.txt\nline one\n\nEND\necho after > after.txt\n", nil)
	env.sh.Interactive()
	if got := env.read(t, "body.txt"); got != "line one\n\n" {
		t.Errorf("heredoc body = %q", got)
	}
	if got := env.read(t, "after.txt"); got != "after\n" {
		t.Errorf("line after heredoc = %q", got)
	}
}

func TestRunCommandExit(t *testing.T) {
	env := newEnv(t, "", nil)
	if got := env.sh.RunCommand("exit 7"); got != 7 {
		t.Errorf("status = %d", got)
	}
}

func TestJournalRecordsAndRestores(t *testing.T) {
	env := newEnv(t, "", nil)
	env.sh.RunLine("echo a > a.txt")
	env.sh.RunLine("echo b > b.txt")

	var out bytes.Buffer
	if code := RunJournal(&out, env.cfg.History.Path, 0, false); code != 0 {
		t.Fatalf("RunJournal = %d", code)
	}
	if !strings.Contains(out.String(), "echo a > a.txt") || !strings.Contains(out.String(), "echo b > b.txt") {
		t.Errorf("journal = %q", out.String())
	}

	out.Reset()
	RunJournal(&out, env.cfg.History.Path, 1, true)
	if strings.Contains(out.String(), "echo a") || !strings.Contains(out.String(), `"line": "echo b > b.txt"`) {
		t.Errorf("json tail = %q", out.String())
	}

	again := newEnv(t, "", env.cfg)
	got := again.sh.Session().History.Entries()
	if len(got) != 2 || got[0] != "echo a > a.txt" {
		t.Errorf("restored history = %q", got)
	}
}

func TestNoHistory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.jsonl")

	sh, err := New(Options{
		Config:    cfg,
		NoHistory: true,
		Dir:       t.TempDir(),
		Environ:   []string{},
		In:        tempFile(t, "in", ""),
		Out:       tempFile(t, "out", ""),
		Err:       tempFile(t, "err", ""),
		Term:      notTTY{},
	})
	if err != nil {
		t.Fatal(err)
	}
	sh.RunLine("echo hi")
	if _, err := os.Stat(cfg.History.Path); !os.IsNotExist(err) {
		t.Errorf("journal written despite NoHistory: %v", err)
	}
}

func TestRunJournalEmpty(t *testing.T) {
	var out bytes.Buffer
	RunJournal(&out, filepath.Join(t.TempDir(), "missing.jsonl"), 5, false)
	if out.String() != "no journal entries\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestHelpBuiltin(t *testing.T) {
	env := newEnv(t, "", nil)
	if got := env.sh.RunLine("help > help.txt"); got != 0 {
		t.Fatalf("status = %d", got)
	}
	text := env.read(t, "help.txt")
	for _, want := range []string{"pipeline operators:", "builtins:", "  cd ", "  help "} {
		if !strings.Contains(text, want) {
			t.Errorf("help lacks %q", want)
		}
	}

	env.sh.RunLine("help cd > cd.txt")
	if got := env.read(t, "cd.txt"); got != "cd: change the working directory\n" {
		t.Errorf("help cd = %q", got)
	}
	if got := env.sh.RunLine("help nope"); got != 1 {
		t.Errorf("unknown topic status = %d", got)
	}
}

func TestPrompt(t *testing.T) {
	home := t.TempDir()
	proj := filepath.Join(home, "proj")
	deep := filepath.Join(proj, "a", "b")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(proj, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	head := filepath.Join(proj, ".git", "HEAD")
	if err := os.WriteFile(head, []byte("ref: refs/heads/main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := builtin.NewSession(deep, []string{"HOME=" + home})
	plain := config.PromptConfig{ShowBranch: true}
	if got := Prompt(s, plain); got != "~/proj/a/b (main) $ " {
		t.Errorf("Prompt = %q", got)
	}

	if err := os.WriteFile(head, []byte("0123456789abcdef\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Prompt(s, plain); got != "~/proj/a/b (0123456) $ " {
		t.Errorf("detached Prompt = %q", got)
	}

	s.Dir = home
	if got := Prompt(s, plain); got != "~ $ " {
		t.Errorf("home Prompt = %q", got)
	}

	s.Dir = proj
	colored := Prompt(s, config.PromptConfig{Color: true})
	if colored != colorDir+"~/proj"+colorReset+" $ " {
		t.Errorf("colored Prompt = %q", colored)
	}
}

func TestGitBranchWorktreeFile(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, "real-git")
	work := filepath.Join(root, "work")
	for _, d := range []string{gitDir, work} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/feature/x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, ".git"), []byte("gitdir: ../real-git\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := gitBranch(work); got != "feature/x" {
		t.Errorf("gitBranch = %q", got)
	}
}
