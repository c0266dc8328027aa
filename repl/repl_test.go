package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/engine"
	"loom/internal/stdlib"
)

func TestStartKeepsBindings(t *testing.T) {
	var out bytes.Buffer
	e := engine.New(engine.WithResolver(stdlib.Resolver()), engine.WithOutput(&out))

	in := strings.NewReader("let x = 40;\nimport \"std/math\" as m;\n\nm::max(x, 2) + 2;\nprint(y);\nx;\n")
	require.NoError(t, Start(in, &out, e))

	got := out.String()
	assert.Contains(t, got, PROMPT+"42\n")
	assert.Contains(t, got, "[E0001]")
	assert.Contains(t, got, PROMPT+"40\n")
	assert.True(t, strings.HasSuffix(got, PROMPT+"\n"))
}
