package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, args ...string) string {
	t.Helper()
	cmd := versionCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionCmd_PrintsInfo(t *testing.T) {
	out := runVersion(t)
	assert.Equal(t, "q2launch "+version+" ("+goVersion+", "+platform+")\n", out)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, version+"\n", runVersion(t, "--short"))
}
