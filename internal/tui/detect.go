package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how reports are rendered.
type Mode int

const (
	// ModePlain is used for pipes, log collectors and CI.
	ModePlain Mode = iota
	// ModeStyled is used when a human is watching a terminal.
	ModeStyled
)

// DetectMode decides whether output written to w may carry colors and borders.
//
// Returns ModePlain if:
//   - FXLOAD_PLAIN=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set
//   - w is not a terminal
func DetectMode(w io.Writer) Mode {
	if os.Getenv("FXLOAD_PLAIN") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ModePlain
	}
	return ModeStyled
}

// IsStyled reports whether w should receive styled output.
func IsStyled(w io.Writer) bool {
	return DetectMode(w) == ModeStyled
}
