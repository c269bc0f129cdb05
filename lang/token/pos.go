package token

import "fmt"

func fmtPosition(p Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.FromCol)
}

// File associates a name with a source, purely for error messages; ember
// programs are small enough that no offset->line index is needed beyond what
// the scanner already tracks while it scans.
type File struct {
	Name string
}
