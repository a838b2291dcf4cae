package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath expands p and makes it absolute relative to root.
func resolvePath(root, p string) string {
	p = expandPath(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and ~\ are accepted too.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	return expandHome(p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// expandPercentVars replaces %VAR% with its value. Unknown variables and a
// lone % are left as written; %% is a literal %.
func expandPercentVars(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for rest := p; rest != ""; {
		start := strings.IndexByte(rest, '%')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+1:]

		end := strings.IndexByte(rest, '%')
		if end < 0 {
			b.WriteByte('%')
			b.WriteString(rest)
			break
		}
		name := rest[:end]
		rest = rest[end+1:]
		switch val, ok := os.LookupEnv(name); {
		case name == "":
			b.WriteByte('%')
		case ok:
			b.WriteString(val)
		default:
			b.WriteString("%" + name + "%")
		}
	}
	return b.String()
}
