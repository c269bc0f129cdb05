package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a single positioned error produced by the scanner, parser or
// resolver.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList collects positioned errors across a single scan/parse/resolve
// pass. Mirrors the shape of go/scanner.ErrorList (Add, Sort, Err, Error) so
// callers can sort a batch of errors the same way the standard library's
// own scanner does; unlike it, Error renders every error, one per line.
type ErrorList []*Error

// Add appends a positioned error to the list.
func (p *ErrorList) Add(pos Position, msg string) {
	*p = append(*p, &Error{Pos: pos, Msg: msg})
}

func (p ErrorList) Len() int      { return len(p) }
func (p ErrorList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ErrorList) Less(i, j int) bool {
	a, b := p[i].Pos, p[j].Pos
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.FromCol < b.FromCol
}

// Sort sorts an ErrorList by source position.
func (p ErrorList) Sort() { sort.Sort(p) }

func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var sb strings.Builder
	for i, e := range p {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err returns nil if the list is empty, else the list itself as an error.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Unwrap lets callers use errors.Is/As across the batch.
func (p ErrorList) Unwrap() []error {
	errs := make([]error, len(p))
	for i, e := range p {
		errs[i] = e
	}
	return errs
}
