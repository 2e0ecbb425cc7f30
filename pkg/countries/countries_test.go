package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	l, err := NewLookup()
	require.NoError(t, err)

	assert.Equal(t, "Portugal", l.Name("PRT"))
	assert.Equal(t, "United Kingdom", l.Name("GBR"))

	// Codes outside the table pass through unchanged.
	assert.Equal(t, "TMP", l.Name("TMP"))
	assert.Equal(t, "", l.Name(""))
}
