package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitPartialFailure, ExitCode(errors.New("stage failures")))
	assert.Equal(t, ExitCouldNotStart, ExitCode(couldNotStart(errors.New("no manifest"))))

	wrapped := fmt.Errorf("running release: %w", couldNotStart(errors.New("bad version")))
	assert.Equal(t, ExitCouldNotStart, ExitCode(wrapped))
}

func TestExitErrorUnwraps(t *testing.T) {
	cause := errors.New("no manifest")
	err := couldNotStart(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no manifest", err.Error())
}
