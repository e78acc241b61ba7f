package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  ann@example.com \nrest"))

	got, err := prompt(r, &out, "Email")
	assert.NoError(t, err)
	assert.Equal(t, "ann@example.com", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = prompt(r, &out, "Name")
	assert.NoError(t, err)
	assert.Equal(t, "rest", got)

	_, err = prompt(r, &out, "Name")
	assert.ErrorIs(t, err, io.EOF)
}

func TestIsInteractive(t *testing.T) {
	t.Parallel()

	assert.False(t, isInteractive(strings.NewReader("")))
}
