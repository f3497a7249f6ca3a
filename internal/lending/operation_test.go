package lending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	for _, s := range []string{"out", "extend", "return"} {
		op, err := ParseOperation(s)
		require.NoError(t, err)
		assert.Equal(t, Operation(s), op)
		assert.True(t, op.Valid())
	}

	for _, s := range []string{"", "update", "OUT", "prolong"} {
		_, err := ParseOperation(s)
		assert.Error(t, err, "tag %q should be rejected", s)
	}

	assert.False(t, Operation("renew").Valid())
}
