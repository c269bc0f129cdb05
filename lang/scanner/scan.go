package scanner

import (
	"os"

	"github.com/ember-lang/ember/lang/token"
)

// ScanFile reads filename and tokenizes it in full. The returned error, if
// non-nil, is a token.ErrorList and implements Unwrap() []error.
func ScanFile(filename string) ([]token.Token, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		var el token.ErrorList
		el.Add(token.Position{}, err.Error())
		return nil, el.Err()
	}
	return ScanSource(filename, src)
}

// ScanSource tokenizes src in full, attributing errors to filename.
func ScanSource(filename string, src []byte) ([]token.Token, error) {
	var (
		s   Scanner
		el  token.ErrorList
		out []token.Token
	)
	s.Init(filename, src, el.Add)
	for {
		tok := s.Scan()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	el.Sort()
	return out, el.Err()
}
