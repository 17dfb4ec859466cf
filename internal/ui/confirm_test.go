package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	orig := Input
	t.Cleanup(func() { Input = orig })

	for answer, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		Input = strings.NewReader(answer)
		var out bytes.Buffer
		assert.Equal(t, want, Confirm(&out, "Buy 2 tickets?"), "answer %q", answer)
		assert.Contains(t, out.String(), "Buy 2 tickets?")
	}

	Input = strings.NewReader("y\n")
	var out bytes.Buffer
	assert.True(t, ConfirmDanger(&out, "Remove wallet?"))
	assert.Contains(t, out.String(), "⚠")
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinner(&out, "waiting")
	s.Stop()
	s.StopWithMsg("done")
	assert.Equal(t, "done\n", out.String())
	assert.Equal(t, Frame(0), Frame(len(spinnerFrames)))
}
