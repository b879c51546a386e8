package validator

import (
	"errors"
	"testing"
)

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	if fields["detail"] != "unexpected EOF" {
		t.Errorf("detail = %q, want the raw error", fields["detail"])
	}
	if len(fields) != 1 {
		t.Errorf("len = %d, want 1", len(fields))
	}
}
