package scan

import (
	"strings"

	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

type state int

const (
	idle state = iota
	expectDeclaration
)

// Headers walks tokens and returns every class header it recognizes, in
// source order. A header starts only on the token right after l.Keyword and
// must pass IsClassName. A token ending in l.Separator opens a multi-token
// header that runs up to and including the next token ending in
// l.Terminator; if the tokens run out first the partial header is dropped.
func Headers(tokens []string, l *lang.Language) []model.Header {
	var headers []model.Header
	st := idle

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if st == expectDeclaration && IsClassName(tok) {
			switch {
			case endsWith(tok, l.Terminator):
				headers = append(headers, model.Header{tok})
			case endsWith(tok, l.Separator):
				h, last, ok := accumulate(tokens, i, l.Terminator)
				if !ok {
					return headers
				}
				headers = append(headers, h)
				i = last
				tok = tokens[last]
			}
		}

		if tok == l.Keyword {
			st = expectDeclaration
		} else {
			st = idle
		}
	}

	return headers
}

// accumulate collects tokens from start through the first one ending in
// term. It returns the index of that token, or ok=false if none does.
func accumulate(tokens []string, start int, term byte) (model.Header, int, bool) {
	var h model.Header
	for j := start; j < len(tokens); j++ {
		h = append(h, tokens[j])
		if endsWith(tokens[j], term) {
			return h, j, true
		}
	}
	return nil, len(tokens) - 1, false
}

func endsWith(tok string, b byte) bool {
	return strings.HasSuffix(tok, string(b))
}
