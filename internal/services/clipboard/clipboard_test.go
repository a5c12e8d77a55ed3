package clipboard_test

import (
	"errors"
	"testing"

	"github.com/temirov/ctxpick/internal/services/clipboard"
)

func TestServiceCopy(t *testing.T) {
	writeFailure := errors.New("no clipboard")
	testCases := []struct {
		name          string
		text          string
		writeErr      error
		expectWritten string
		expectErr     error
	}{
		{name: "writes text", text: "artifact", expectWritten: "artifact"},
		{name: "rejects empty text", text: "", expectErr: clipboard.ErrEmptyText},
		{name: "wraps writer error", text: "artifact", writeErr: writeFailure, expectWritten: "artifact", expectErr: writeFailure},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var written string
			service := clipboard.NewServiceWithWriter(func(text string) error {
				written = text
				return testCase.writeErr
			}, nil)

			copyErr := service.Copy(testCase.text)
			if testCase.expectErr == nil && copyErr != nil {
				t.Fatalf("unexpected error: %v", copyErr)
			}
			if testCase.expectErr != nil && !errors.Is(copyErr, testCase.expectErr) {
				t.Fatalf("expected %v, got %v", testCase.expectErr, copyErr)
			}
			if written != testCase.expectWritten {
				t.Fatalf("expected %q written, got %q", testCase.expectWritten, written)
			}
		})
	}
}
