package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/tabdown/internal/logger"
)

type fieldErr struct {
	err error
}

func (e *fieldErr) Error() string          { return "converting row: " + e.err.Error() }
func (e *fieldErr) Unwrap() error          { return e.err }
func (e *fieldErr) Fields() map[string]any { return map[string]any{"row": 2, "kind": "table"} }

func explode() (err error) {
	defer Recover(&err)
	var m map[string]int
	m["x"] = 1
	return nil
}

func TestRecover_ConvertsPanic(t *testing.T) {
	err := explode()
	require.Error(t, err)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)

	f := FromError(err)
	assert.Equal(t, "panic", f.Name)
	assert.Contains(t, f.Message, "assignment to entry in nil map")
	assert.Contains(t, f.Stack, "explode")
}

func TestRecover_NoPanicLeavesErrorAlone(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		return fmt.Errorf("plain")
	}
	assert.EqualError(t, run(), "plain")
}

func TestFromError_FieldsAndName(t *testing.T) {
	root := errors.New("cell exploded")
	err := errors.Wrap(&fieldErr{err: root}, "activation failed")

	f := FromError(err)
	assert.Equal(t, "activation failed: converting row: cell exploded", f.Message)
	assert.Equal(t, "*errors.fundamental", f.Name)
	assert.Equal(t, map[string]any{"row": 2, "kind": "table"}, f.Fields)
	assert.Contains(t, f.Stack, "TestFromError_FieldsAndName")
}

func TestFromError_StdlibError(t *testing.T) {
	f := FromError(fmt.Errorf("outer: %w", fmt.Errorf("inner")))
	assert.Equal(t, "outer: inner", f.Message)
	assert.Equal(t, "*errors.errorString", f.Name)
	assert.Empty(t, f.Stack)
	assert.Empty(t, f.Fields)
}

func TestNotify_PrintsAndLogs(t *testing.T) {
	var out, logs bytes.Buffer
	err := &fieldErr{err: errors.New("bad cell")}

	f := Notify(&out, logger.New(&logs), err)

	assert.Contains(t, out.String(), "⚠ Error")
	assert.Contains(t, out.String(), "converting row: bad cell")
	assert.Contains(t, out.String(), "kind: table")
	assert.Contains(t, out.String(), "row: 2")
	assert.Equal(t, "converting row: bad cell", f.Message)
	assert.Contains(t, logs.String(), "converting row: bad cell")
	assert.Contains(t, logs.String(), "row=2")
}
