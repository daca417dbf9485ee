package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/config"
)

const (
	colorDir    = "\x1b[1;34m"
	colorBranch = "\x1b[35m"
	colorReset  = "\x1b[0m"
)

// Prompt renders "DIR (branch) $ " for the session, with the home
// directory shortened to ~.
func Prompt(s *builtin.Session, cfg config.PromptConfig) string {
	dir := s.Dir
	if home, ok := s.Getenv("HOME"); ok && home != "" && home != "/" {
		if dir == home {
			dir = "~"
		} else if strings.HasPrefix(dir, home+"/") {
			dir = "~" + dir[len(home):]
		}
	}

	var b strings.Builder
	b.WriteString(paint(cfg.Color, colorDir, dir))
	if cfg.ShowBranch {
		if branch := gitBranch(s.Dir); branch != "" {
			b.WriteString(" (")
			b.WriteString(paint(cfg.Color, colorBranch, branch))
			b.WriteString(")")
		}
	}
	b.WriteString(" $ ")
	return b.String()
}

func paint(on bool, color, text string) string {
	if !on {
		return text
	}
	return color + text + colorReset
}

// gitBranch returns the checked-out branch of the repository containing
// dir, a short commit id when HEAD is detached, or "" outside a repository.
func gitBranch(dir string) string {
	for {
		gitDir, ok := findGitDir(dir)
		if ok {
			return readHead(gitDir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// findGitDir resolves dir/.git, following the "gitdir:" file used by
// worktrees and submodules.
func findGitDir(dir string) (string, bool) {
	path := filepath.Join(dir, ".git")
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		return path, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", false
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target, true
}

func readHead(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return ""
	}
	head := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(head, "ref: "); ok {
		return strings.TrimPrefix(ref, "refs/heads/")
	}
	if len(head) > 7 {
		return head[:7]
	}
	return head
}
