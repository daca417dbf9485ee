package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcelocantos/gosh/internal/history"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	s := NewSession(dir, []string{"HOME=" + dir, "PATH=/usr/bin:/bin", "MALFORMED"})
	var out, errOut bytes.Buffer
	s.Stdout = &out
	s.Stderr = &errOut
	return s, &out, &errOut
}

func TestRegistryAllSorted(t *testing.T) {
	reg := Default()
	var names []string
	for _, b := range reg.All() {
		names = append(names, b.Name())
	}
	want := "alias,cd,echo,exit,export,history,pwd,set,unalias,unset"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("All() = %s, want %s", got, want)
	}
	if reg.IsBuiltin("ls") {
		t.Error("ls is not a builtin")
	}
}

func TestEcho(t *testing.T) {
	s, out, _ := newTestSession(t)
	if code := Default().Execute(s, []string{"echo", "hello", "world"}); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if out.String() != "hello world\n" {
		t.Errorf("echo wrote %q", out.String())
	}
}

func TestCdAndPwd(t *testing.T) {
	s, out, errOut := newTestSession(t)
	reg := Default()
	start := s.Dir
	sub := filepath.Join(start, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	if code := reg.Execute(s, []string{"cd", "sub"}); code != 0 {
		t.Fatalf("cd sub: %d (%s)", code, errOut.String())
	}
	if s.Dir != sub {
		t.Errorf("Dir = %q, want %q", s.Dir, sub)
	}
	if v, _ := s.Getenv("OLDPWD"); v != start {
		t.Errorf("OLDPWD = %q", v)
	}

	reg.Execute(s, []string{"pwd"})
	if strings.TrimSpace(out.String()) != sub {
		t.Errorf("pwd printed %q", out.String())
	}

	if code := reg.Execute(s, []string{"cd"}); code != 0 || s.Dir != start {
		t.Errorf("cd with no args should go HOME, got %q (%d)", s.Dir, code)
	}

	if code := reg.Execute(s, []string{"cd", "nope"}); code != 1 {
		t.Errorf("cd to missing dir: code %d", code)
	}
	if !strings.Contains(errOut.String(), "gosh: cd: nope: No such file or directory") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
	if s.Dir != start {
		t.Error("failed cd must not move the session")
	}
}

func TestCdTilde(t *testing.T) {
	s, _, _ := newTestSession(t)
	home, _ := s.Getenv("HOME")
	if err := os.Mkdir(filepath.Join(home, "proj"), 0755); err != nil {
		t.Fatal(err)
	}
	s.Dir = "/"
	if code := Default().Execute(s, []string{"cd", "~/proj"}); code != 0 {
		t.Fatalf("cd ~/proj failed: %d", code)
	}
	if s.Dir != filepath.Join(home, "proj") {
		t.Errorf("Dir = %q", s.Dir)
	}
}

func TestVariables(t *testing.T) {
	s, out, _ := newTestSession(t)
	reg := Default()

	reg.Execute(s, []string{"set", "GREETING=hi", "ignored"})
	if v, ok := s.Var("GREETING"); !ok || v != "hi" {
		t.Fatalf("set did not store variable: %q %v", v, ok)
	}
	if _, ok := s.Getenv("GREETING"); ok {
		t.Error("set must not export")
	}

	reg.Execute(s, []string{"export", "GREETING"})
	if v, _ := s.Getenv("GREETING"); v != "hi" {
		t.Errorf("export NAME should export current value, got %q", v)
	}

	reg.Execute(s, []string{"export", "EDITOR=vi"})
	if v, _ := s.Getenv("EDITOR"); v != "vi" {
		t.Errorf("EDITOR = %q", v)
	}

	out.Reset()
	reg.Execute(s, []string{"set"})
	if out.String() != "EDITOR=vi\nGREETING=hi\n" {
		t.Errorf("set listing = %q", out.String())
	}

	if code := reg.Execute(s, []string{"unset", "GREETING"}); code != 0 {
		t.Errorf("unset existing: %d", code)
	}
	if _, ok := s.Var("GREETING"); ok {
		t.Error("unset left variable behind")
	}
	if code := reg.Execute(s, []string{"unset", "GREETING"}); code != 1 {
		t.Errorf("unset missing: %d", code)
	}
	if code := reg.Execute(s, []string{"unset"}); code != 1 {
		t.Errorf("unset usage: %d", code)
	}
}

func TestEnvironSortedAndMalformedSkipped(t *testing.T) {
	s, _, _ := newTestSession(t)
	env := s.Environ()
	if len(env) != 2 || !strings.HasPrefix(env[0], "HOME=") || env[1] != "PATH=/usr/bin:/bin" {
		t.Errorf("Environ() = %q", env)
	}
	if got := s.SearchPath(); len(got) != 2 || got[1] != "/bin" {
		t.Errorf("SearchPath() = %q", got)
	}
}

func TestAliases(t *testing.T) {
	s, out, errOut := newTestSession(t)
	reg := Default()

	reg.Execute(s, []string{"alias", "ll=ls -l", "la=ls -a"})
	out.Reset()
	reg.Execute(s, []string{"alias"})
	if out.String() != "alias la='ls -a'\nalias ll='ls -l'\n" {
		t.Errorf("alias listing = %q", out.String())
	}

	out.Reset()
	reg.Execute(s, []string{"alias", "ll"})
	if out.String() != "alias ll='ls -l'\n" {
		t.Errorf("alias ll = %q", out.String())
	}

	if code := reg.Execute(s, []string{"unalias", "ll"}); code != 0 {
		t.Errorf("unalias: %d", code)
	}
	if _, ok := s.Alias("ll"); ok {
		t.Error("alias still defined")
	}
	if code := reg.Execute(s, []string{"unalias", "ll"}); code != 1 {
		t.Errorf("unalias missing: %d", code)
	}
	if !strings.Contains(errOut.String(), "gosh: unalias: ll: not found") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		last     int
		wantCode int
		wantExit int
	}{
		{"no args uses last status", nil, 3, 3, 3},
		{"explicit", []string{"7"}, 0, 7, 7},
		{"wraps to a byte", []string{"256"}, 0, 0, 0},
		{"zero", []string{"0"}, 5, 0, 0},
		{"not a number", []string{"x"}, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t)
			s.LastStatus = tt.last
			code := Default().Execute(s, append([]string{"exit"}, tt.args...))
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			exit, ok := s.ExitRequested()
			if !ok || exit != tt.wantExit {
				t.Errorf("ExitRequested() = %d, %v; want %d", exit, ok, tt.wantExit)
			}
		})
	}
}

func TestHistoryBuiltin(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.History = history.New(8)
	s.History.Add("ls")
	s.History.Add("pwd")
	Default().Execute(s, []string{"history"})
	if out.String() != "    1  ls\n    2  pwd\n" {
		t.Errorf("history output = %q", out.String())
	}
}

func TestCloneIsolation(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.SetAlias("g", "git")
	c := s.Clone()

	reg := Default()
	reg.Execute(c, []string{"export", "LEAK=1"})
	reg.Execute(c, []string{"unalias", "g"})
	reg.Execute(c, []string{"cd", "/"})
	reg.Execute(c, []string{"exit", "4"})

	if _, ok := s.Getenv("LEAK"); ok {
		t.Error("clone export leaked")
	}
	if _, ok := s.Alias("g"); !ok {
		t.Error("clone unalias leaked")
	}
	if s.Dir == "/" {
		t.Error("clone cd leaked")
	}
	if _, ok := s.ExitRequested(); ok {
		t.Error("clone exit leaked")
	}
}

func TestUnknownBuiltin(t *testing.T) {
	s, _, errOut := newTestSession(t)
	if code := Default().Execute(s, []string{"frobnicate"}); code != 1 {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(errOut.String(), "not a builtin") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
