package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	err := PrintJSON(&buf, map[string]int{"count": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"count\": 2\n}\n", buf.String())
}

func TestPrintJSON_Unsupported(t *testing.T) {
	var buf bytes.Buffer

	err := PrintJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
