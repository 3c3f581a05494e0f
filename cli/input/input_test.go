package input

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	Reader = strings.NewReader("hello there\n")
	t.Cleanup(func() { Reader = os.Stdin })

	var out bytes.Buffer
	line, err := ReadLine(&out, "> ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", line)
	assert.Equal(t, "> ", out.String())
}

func TestConfirm(t *testing.T) {
	for answer, expected := range map[string]bool{
		"y":     true,
		"Y":     true,
		"yes":   true,
		"YES":   true,
		"n":     false,
		"no":    false,
		"":      false,
		"maybe": false,
	} {
		Reader = strings.NewReader(answer + "\n")
		ok, err := Confirm(new(bytes.Buffer), "proceed?")
		require.NoError(t, err)
		assert.Equal(t, expected, ok, answer)
	}
	Reader = os.Stdin
}
