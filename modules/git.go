package modules

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/producers/command"
	"github.com/bepzi/contrail/runner"
)

// Repository introspection is a black-box command: the module runs git
// through the same core as everything else and parses its captured stdout.
const gitStatusCommand = "git status --porcelain=v2 --branch"

// gitModule renders the current branch with dirty counts and ahead/behind
// markers. Outside a repository (git exits 128), with git missing, or past
// the deadline, the segment is skipped silently.
func gitModule(cfg config.Config, index int) Module {
	syms := cfg.GitSymbols()
	meta := producers.Metadata{Index: index, Label: "git", Command: gitStatusCommand}
	return Module{
		Name:     "git",
		Producer: command.New(meta, "", nil),
		text: func(res runner.Result) string {
			if res.State != runner.Exited || res.ExitCode != 0 {
				return ""
			}
			return gitText(parseGitStatus(res.Stdout), syms)
		},
		opts: cfg.OptionsFor("git"),
	}
}

type gitStatus struct {
	branch        string
	ahead, behind int
	changed       int // tracked paths with modifications
	deleted       int // tracked paths deleted
}

// parseGitStatus reads `git status --porcelain=v2 --branch` output. Header
// lines carry the branch name and the ahead/behind counts; entry lines (1 =
// changed, 2 = renamed, u = unmerged) are tallied into the dirty counts.
// Untracked (?) and ignored (!) entries are not counted, matching what a
// diff against the index would report.
func parseGitStatus(out []byte) gitStatus {
	var st gitStatus

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "# branch.head "):
			st.branch = strings.TrimPrefix(line, "# branch.head ")

		case strings.HasPrefix(line, "# branch.ab "):
			fields := strings.Fields(strings.TrimPrefix(line, "# branch.ab "))
			if len(fields) == 2 {
				st.ahead, _ = strconv.Atoi(strings.TrimPrefix(fields[0], "+"))
				st.behind, _ = strconv.Atoi(strings.TrimPrefix(fields[1], "-"))
			}

		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "), strings.HasPrefix(line, "u "):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			if strings.Contains(fields[1], "D") {
				st.deleted++
			} else {
				st.changed++
			}
		}
	}

	return st
}

func gitText(st gitStatus, syms config.GitSymbols) string {
	if st.branch == "" {
		return ""
	}

	out := st.branch

	if syms.ShowDiffStats && st.changed+st.deleted > 0 {
		out += fmt.Sprintf(" (%s%d, %s%d)", syms.Deletion, st.deleted, syms.Insertion, st.changed)
	}

	if syms.ShowUnpushed {
		if st.ahead > 0 {
			out += fmt.Sprintf(" %s%d", syms.Push, st.ahead)
		}
		if st.behind > 0 {
			out += fmt.Sprintf(" %s%d", syms.Pull, st.behind)
		}
	}

	return out
}
