package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentHandler(t *testing.T) log.Handler {
	t.Helper()
	l, ok := log.Log.(*log.Logger)
	require.True(t, ok)
	return l.Handler
}

func TestSetFormat(t *testing.T) {
	prev := currentHandler(t)
	t.Cleanup(func() { SetHandler(prev) })

	SetFormat("json")
	assert.IsType(t, &jsonhandler.Handler{}, currentHandler(t))

	SetFormat("text")
	assert.IsType(t, &text.Handler{}, currentHandler(t))

	SetFormat("")
	assert.IsType(t, &text.Handler{}, currentHandler(t))
}

func TestInfof_Prefixed(t *testing.T) {
	prev := currentHandler(t)
	t.Cleanup(func() { SetHandler(prev) })

	var buf bytes.Buffer
	SetHandler(jsonhandler.New(&buf))
	Infof("found %d streams", 3)

	var entry struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Regexp(t, `^\[.+\] found 3 streams$`, entry.Message)
}
