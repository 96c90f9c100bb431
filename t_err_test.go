package sqlcrit

import (
	"errors"
	"fmt"
	"testing"
)

func Test_Err(t *testing.T) {
	eq(t, ``, Err{}.Error())
	eq(t, `[sqlcrit] Internal`, Err{Code: ErrCodeInternal}.Error())
	eq(
		t,
		`[sqlcrit] InvalidInput while collecting criteria: nil test`,
		ErrInvalidInput.while(`collecting criteria`).because(errors.New(`nil test`)).Error(),
	)
}

func Test_Err_Is(t *testing.T) {
	cause := errors.New(`cause`)
	err := ErrUnknownField.while(`testing`).because(cause)

	eq(t, true, errors.Is(err, ErrUnknownField))
	eq(t, true, errors.Is(err, cause))
	eq(t, false, errors.Is(err, ErrInvalidInput))
	eq(t, true, errors.Is(fmt.Errorf(`wrapped: %w`, err), ErrUnknownField))
	eq(t, cause, errors.Unwrap(err))
}

func Test_Err_JoinOn_recovers_only_errors(t *testing.T) {
	panics(t, `non-error panic`, func() {
		_, _ = JoinOn(func(*JoinCollector) { panic(`non-error panic`) })
	})
}
