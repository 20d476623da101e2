package server

import (
	"bytes"
	"fmt"

	"github.com/avbdev/redikit/internal/command"
	"github.com/avbdev/redikit/internal/redisconf"
	"github.com/avbdev/redikit/internal/resp"
	"github.com/avbdev/redikit/internal/store"
)

// Evaluate executes a single parsed Request against the keyspace, config,
// and replication identity, returning the single top-level reply value to
// write back to the connection.
//
// Evaluate never holds a reference into ks across a socket write: every
// value it returns is built from the request's own bytes, the immutable
// config, a fresh allocation, or a copy taken from ks while under its own
// lock, so the caller is free to flush to the network at its leisure
// without racing a concurrent Set on another connection.
func Evaluate(req command.Request, ks *store.Keyspace, cfg *redisconf.Config, repl *redisconf.ReplicationInfo) resp.Value {
	switch req.Kind {
	case command.KindPing:
		return resp.SimpleString([]byte("PONG"))

	case command.KindEcho:
		return resp.BulkString(req.Arg)

	case command.KindSet:
		ks.Set(req.Key, req.Value, req.Expiration)
		return resp.SimpleString([]byte("OK"))

	case command.KindGet:
		v, ok := ks.Get(req.Arg)
		if !ok {
			return resp.NullBulkString
		}
		return resp.BulkString(v.Data)

	case command.KindConfigGet:
		if len(req.Params) == 0 {
			return resp.NullArray
		}
		vals := make([]resp.Value, 0, len(req.Params)*2)
		for _, p := range req.Params {
			v, ok := cfg.Get(p)
			if !ok {
				continue
			}
			vals = append(vals, resp.BulkString(p), resp.BulkString(v))
		}
		return resp.Array(vals)

	case command.KindKeys:
		if !bytes.Equal(req.Arg, []byte("*")) {
			return resp.SimpleError([]byte(fmt.Sprintf("ERR unsupported KEYS pattern %q", req.Arg)))
		}
		keys := ks.Keys()
		vals := make([]resp.Value, 0, len(keys))
		for _, k := range keys {
			vals = append(vals, resp.BulkString(k))
		}
		return resp.Array(vals)

	case command.KindInfo:
		if !req.HasSection() || bytes.EqualFold(req.Section, []byte("replication")) {
			return resp.BulkString(repl.Report())
		}
		return resp.NullBulkString

	default:
		return resp.SimpleError([]byte("ERR internal: unhandled request kind"))
	}
}
