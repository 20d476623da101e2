// Package command turns a parsed RESP array into a typed Request, matching
// the dispatch rules of the supported command subset.
package command

import (
	"bytes"
	"strconv"
	"time"

	"github.com/avbdev/redikit/internal/resp"
)

// Kind discriminates the cases of Request.
type Kind int

const (
	KindPing Kind = iota
	KindEcho
	KindSet
	KindGet
	KindConfigGet
	KindKeys
	KindInfo
)

// Request is a single parsed command, with only the fields relevant to Kind
// populated.
type Request struct {
	Kind Kind

	// Echo, Get, Keys: the single bulk-string argument.
	Arg []byte

	// Set.
	Key        []byte
	Value      []byte
	Expiration *time.Time

	// ConfigGet, in request order.
	Params [][]byte

	// Info: nil means no section argument was given.
	Section []byte
	hasInfo bool
}

// HasSection reports whether an Info request named a section.
func (r Request) HasSection() bool { return r.hasInfo }

// Parse interprets v as a command invocation. v must be an Array whose
// first element is a BulkString naming the command; now is the wall-clock
// instant used to resolve relative expirations (e.g. SET ... PX) into the
// absolute deadlines Request carries.
func Parse(v resp.Value, now time.Time) (Request, error) {
	if v.Kind != resp.KindArray || len(v.Array) == 0 {
		return Request{}, errUnexpectedArgumentType("<request>")
	}
	head := v.Array[0]
	if head.Kind != resp.KindBulkString {
		return Request{}, errUnexpectedArgumentType("<request>")
	}
	name := string(bytes.ToUpper(head.Str))
	args := v.Array[1:]

	switch name {
	case "PING":
		if len(args) != 0 {
			return Request{}, errUnexpectedNumberOfArgs(name, len(args))
		}
		return Request{Kind: KindPing}, nil

	case "ECHO":
		if len(args) != 1 {
			return Request{}, errUnexpectedNumberOfArgs(name, len(args))
		}
		arg, err := bulkArg(args, name, 0)
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: KindEcho, Arg: arg}, nil

	case "GET":
		if len(args) != 1 {
			return Request{}, errUnexpectedNumberOfArgs(name, len(args))
		}
		arg, err := bulkArg(args, name, 0)
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: KindGet, Arg: arg}, nil

	case "SET":
		return parseSet(args, now)

	case "CONFIG":
		return parseConfig(args)

	case "KEYS":
		if len(args) != 1 {
			return Request{}, errUnexpectedNumberOfArgs(name, len(args))
		}
		arg, err := bulkArg(args, name, 0)
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: KindKeys, Arg: arg}, nil

	case "INFO":
		switch len(args) {
		case 0:
			return Request{Kind: KindInfo}, nil
		case 1:
			arg, err := bulkArg(args, name, 0)
			if err != nil {
				return Request{}, err
			}
			return Request{Kind: KindInfo, Section: arg, hasInfo: true}, nil
		default:
			return Request{}, errUnexpectedNumberOfArgs(name, len(args))
		}

	default:
		return Request{}, errUnknownRequest(name)
	}
}

func parseSet(args []resp.Value, now time.Time) (Request, error) {
	switch len(args) {
	case 2:
		key, err := bulkArg(args, "SET", 0)
		if err != nil {
			return Request{}, err
		}
		value, err := bulkArg(args, "SET", 1)
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: KindSet, Key: key, Value: value}, nil
	case 4:
		key, err := bulkArg(args, "SET", 0)
		if err != nil {
			return Request{}, err
		}
		value, err := bulkArg(args, "SET", 1)
		if err != nil {
			return Request{}, err
		}
		optName, err := bulkArg(args, "SET", 2)
		if err != nil {
			return Request{}, err
		}
		optArg, err := bulkArg(args, "SET", 3)
		if err != nil {
			return Request{}, err
		}
		if !bytes.EqualFold(optName, []byte("PX")) {
			return Request{}, errUnknownRequest("SET " + string(optName))
		}
		ms, err := strconv.ParseInt(string(optArg), 10, 64)
		if err != nil || ms < 0 {
			return Request{}, errIntParseFailure("SET", err)
		}
		deadline := now.Add(time.Duration(ms) * time.Millisecond)
		return Request{Kind: KindSet, Key: key, Value: value, Expiration: &deadline}, nil
	default:
		return Request{}, errUnexpectedNumberOfArgs("SET", len(args))
	}
}

func parseConfig(args []resp.Value) (Request, error) {
	if len(args) < 2 {
		return Request{}, errUnexpectedNumberOfArgs("CONFIG", len(args))
	}
	sub, err := bulkArg(args, "CONFIG", 0)
	if err != nil {
		return Request{}, err
	}
	if !bytes.EqualFold(sub, []byte("GET")) {
		return Request{}, errUnknownRequest("CONFIG " + string(sub))
	}
	params := make([][]byte, 0, len(args)-1)
	for i := 1; i < len(args); i++ {
		p, err := bulkArg(args, "CONFIG GET", i)
		if err != nil {
			return Request{}, err
		}
		params = append(params, p)
	}
	return Request{Kind: KindConfigGet, Params: params}, nil
}

func bulkArg(args []resp.Value, name string, i int) ([]byte, error) {
	if i >= len(args) || args[i].Kind != resp.KindBulkString {
		return nil, errUnexpectedArgumentType(name)
	}
	return args[i].Str, nil
}
