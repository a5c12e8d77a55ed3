package tokenizer

import (
	"errors"
	"unicode/utf8"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a piece of text.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText estimates tokens for text. Invalid UTF-8 is reported as not counted.
func CountText(counter Counter, text string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if !utf8.ValidString(text) {
		return CountResult{Counted: false}, nil
	}
	tokens, countErr := counter.CountString(text)
	if countErr != nil {
		return CountResult{}, countErr
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
