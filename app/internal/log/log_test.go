// SPDX-License-Identifier: Unlicense OR MIT

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/clue/log"
)

func TestJSONFormat(t *testing.T) {
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvDebug, "")
	var buf bytes.Buffer
	ctx := New(&buf)
	log.Print(ctx, log.KV{K: "msg", V: "hello"})
	line := bytes.TrimSpace(buf.Bytes())
	require.True(t, json.Valid(line), "not json: %s", line)
	assert.Contains(t, string(line), "hello")
}

func TestDebugFromEnvironment(t *testing.T) {
	t.Setenv(EnvFormat, "text")

	t.Setenv(EnvDebug, "0")
	var quiet bytes.Buffer
	log.Debug(New(&quiet), log.KV{K: "msg", V: "hidden"})
	assert.NotContains(t, quiet.String(), "hidden")

	t.Setenv(EnvDebug, "1")
	var loud bytes.Buffer
	log.Debug(New(&loud), log.KV{K: "msg", V: "shown"})
	assert.Contains(t, loud.String(), "shown")
}
