package command

import (
	"testing"
	"time"

	"github.com/hcnet/respd/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arr(items ...resp.Frame) resp.Frame { return resp.Array(items) }
func bulk(s string) resp.Frame           { return resp.Bulk([]byte(s)) }

func TestParsePing(t *testing.T) {
	cmd, err := Parse(arr(bulk("PING")))
	require.NoError(t, err)
	assert.Equal(t, Ping, cmd.Kind)
	assert.False(t, cmd.IsWrite())
}

func TestParsePingCaseInsensitive(t *testing.T) {
	cmd, err := Parse(arr(bulk("pInG")))
	require.NoError(t, err)
	assert.Equal(t, Ping, cmd.Kind)
}

func TestParsePingRejectsArgs(t *testing.T) {
	_, err := Parse(arr(bulk("PING"), bulk("x")))
	require.Error(t, err)
	assert.Equal(t, UnexpectedArgument, err.(*ParseError).Kind)
}

func TestParseEcho(t *testing.T) {
	cmd, err := Parse(arr(bulk("ECHO"), bulk("hello")))
	require.NoError(t, err)
	assert.Equal(t, Echo, cmd.Kind)
	assert.Equal(t, "hello", string(cmd.Message))
}

func TestParseGetAbsentIsNotAnError(t *testing.T) {
	cmd, err := Parse(arr(bulk("GET"), bulk("missing")))
	require.NoError(t, err)
	assert.Equal(t, Get, cmd.Kind)
	assert.Equal(t, "missing", string(cmd.Key))
}

func TestParseSetNoExpiry(t *testing.T) {
	cmd, err := Parse(arr(bulk("SET"), bulk("k"), bulk("v")))
	require.NoError(t, err)
	assert.Equal(t, Set, cmd.Kind)
	assert.Equal(t, "k", string(cmd.Key))
	assert.Equal(t, "v", string(cmd.Value))
	assert.False(t, cmd.HasExpiry)
	assert.True(t, cmd.IsWrite())
}

func TestParseSetWithPX(t *testing.T) {
	before := time.Now()
	cmd, err := Parse(arr(bulk("SET"), bulk("k"), bulk("v"), bulk("PX"), bulk("10")))
	require.NoError(t, err)
	require.True(t, cmd.HasExpiry)
	assert.True(t, cmd.ExpiresAt.After(before))
	assert.True(t, cmd.ExpiresAt.Sub(before) >= 10*time.Millisecond)
}

func TestParseSetWithEX(t *testing.T) {
	before := time.Now()
	cmd, err := Parse(arr(bulk("SET"), bulk("k"), bulk("v"), bulk("EX"), bulk("5")))
	require.NoError(t, err)
	require.True(t, cmd.HasExpiry)
	assert.True(t, cmd.ExpiresAt.Sub(before) >= 5*time.Second)
}

func TestParseSetBadOption(t *testing.T) {
	_, err := Parse(arr(bulk("SET"), bulk("k"), bulk("v"), bulk("ZZ"), bulk("5")))
	require.Error(t, err)
	assert.Equal(t, UnexpectedArgument, err.(*ParseError).Kind)
}

func TestParseSetNegativeExpiry(t *testing.T) {
	_, err := Parse(arr(bulk("SET"), bulk("k"), bulk("v"), bulk("EX"), bulk("-1")))
	require.Error(t, err)
}

func TestParseSetMissingValue(t *testing.T) {
	_, err := Parse(arr(bulk("SET"), bulk("k")))
	require.Error(t, err)
	assert.Equal(t, MissingArgument, err.(*ParseError).Kind)
}

func TestParseNotAnArray(t *testing.T) {
	_, err := Parse(bulk("PING"))
	require.Error(t, err)
	assert.Equal(t, NotAnArray, err.(*ParseError).Kind)
}

func TestParseNullArrayIsNotAnArray(t *testing.T) {
	_, err := Parse(resp.NullArray())
	require.Error(t, err)
	assert.Equal(t, NotAnArray, err.(*ParseError).Kind)
}

func TestParseWrongTypeCommandName(t *testing.T) {
	_, err := Parse(arr(resp.Integer(1)))
	require.Error(t, err)
	assert.Equal(t, WrongType, err.(*ParseError).Kind)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse(arr(bulk("FLUSHALL")))
	require.Error(t, err)
	assert.Equal(t, UnknownCommand, err.(*ParseError).Kind)
}

func TestParseEmptyArray(t *testing.T) {
	_, err := Parse(arr())
	require.Error(t, err)
	assert.Equal(t, MissingArgument, err.(*ParseError).Kind)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "UnknownCommand", UnknownCommand.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SET", Set.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
}
