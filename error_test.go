package askweb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/askweb"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := askweb.Errorf(askweb.ENOTFOUND, "query %q not found", "test")

	assert.Equal(t, askweb.ENOTFOUND, askweb.ErrorCode(err))
	assert.Equal(t, "query \"test\" not found", askweb.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, askweb.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, askweb.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("saving: %w", askweb.Errorf(askweb.ECONFLICT, "email taken"))

	assert.Equal(t, askweb.ECONFLICT, askweb.ErrorCode(err))
	assert.Equal(t, "email taken", askweb.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, askweb.EINTERNAL, askweb.ErrorCode(err))
	assert.Equal(t, "Internal error.", askweb.ErrorMessage(err))
}
