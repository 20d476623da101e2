package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avbdev/redikit/internal/resp"
)

func array(vals ...resp.Value) resp.Value { return resp.Array(vals) }
func bulk(s string) resp.Value            { return resp.BulkString([]byte(s)) }

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParsePing(t *testing.T) {
	req, err := Parse(array(bulk("PING")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindPing, req.Kind)
}

func TestParsePingRejectsArgs(t *testing.T) {
	_, err := Parse(array(bulk("PING"), bulk("x")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnexpectedNumberOfArgs, cerr.Kind)
}

func TestParseEcho(t *testing.T) {
	req, err := Parse(array(bulk("ECHO"), bulk("hello")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindEcho, req.Kind)
	assert.Equal(t, []byte("hello"), req.Arg)
}

func TestParseGet(t *testing.T) {
	req, err := Parse(array(bulk("get"), bulk("foo")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindGet, req.Kind)
	assert.Equal(t, []byte("foo"), req.Arg)
}

func TestParseSetNoExpiration(t *testing.T) {
	req, err := Parse(array(bulk("SET"), bulk("foo"), bulk("bar")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindSet, req.Kind)
	assert.Equal(t, []byte("foo"), req.Key)
	assert.Equal(t, []byte("bar"), req.Value)
	assert.Nil(t, req.Expiration)
}

func TestParseSetWithPX(t *testing.T) {
	req, err := Parse(array(bulk("SET"), bulk("foo"), bulk("bar"), bulk("px"), bulk("100")), fixedNow)
	require.NoError(t, err)
	require.NotNil(t, req.Expiration)
	assert.Equal(t, fixedNow.Add(100*time.Millisecond), *req.Expiration)
}

func TestParseSetUnknownOption(t *testing.T) {
	_, err := Parse(array(bulk("SET"), bulk("foo"), bulk("bar"), bulk("EX"), bulk("100")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnknownRequest, cerr.Kind)
}

func TestParseSetBadIntegerPX(t *testing.T) {
	_, err := Parse(array(bulk("SET"), bulk("foo"), bulk("bar"), bulk("PX"), bulk("nope")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrIntParseFailure, cerr.Kind)
}

func TestParseSetWrongArity(t *testing.T) {
	_, err := Parse(array(bulk("SET"), bulk("foo")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnexpectedNumberOfArgs, cerr.Kind)
}

func TestParseConfigGet(t *testing.T) {
	req, err := Parse(array(bulk("CONFIG"), bulk("GET"), bulk("dir"), bulk("port")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindConfigGet, req.Kind)
	require.Len(t, req.Params, 2)
	assert.Equal(t, []byte("dir"), req.Params[0])
	assert.Equal(t, []byte("port"), req.Params[1])
}

func TestParseConfigUnknownSubcommand(t *testing.T) {
	_, err := Parse(array(bulk("CONFIG"), bulk("SET"), bulk("dir"), bulk("/tmp")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnknownRequest, cerr.Kind)
}

func TestParseKeys(t *testing.T) {
	req, err := Parse(array(bulk("KEYS"), bulk("*")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindKeys, req.Kind)
	assert.Equal(t, []byte("*"), req.Arg)
}

func TestParseInfoNoSection(t *testing.T) {
	req, err := Parse(array(bulk("INFO")), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, KindInfo, req.Kind)
	assert.False(t, req.HasSection())
}

func TestParseInfoWithSection(t *testing.T) {
	req, err := Parse(array(bulk("INFO"), bulk("replication")), fixedNow)
	require.NoError(t, err)
	assert.True(t, req.HasSection())
	assert.Equal(t, []byte("replication"), req.Section)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse(array(bulk("NOPE")), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnknownRequest, cerr.Kind)
}

func TestParseRejectsNonArray(t *testing.T) {
	_, err := Parse(bulk("PING"), fixedNow)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnexpectedArgumentType, cerr.Kind)
}
