package server

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/avbdev/redikit/internal/redisconf"
	"github.com/avbdev/redikit/internal/store"
)

// ConnState describes where a connection sits in its lifecycle.
type ConnState int32

const (
	StateNew ConnState = iota
	StateActive
	StateClosed
)

// Server accepts RESP connections and serves them against a shared
// keyspace, config snapshot, and replication identity. There are no read,
// write, or idle deadlines and no connection admission limit: the listener
// accept queue is the only backpressure.
type Server struct {
	Address string
	Logger  zerolog.Logger

	Keyspace    *store.Keyspace
	Config      *redisconf.Config
	Replication *redisconf.ReplicationInfo

	listener    net.Listener
	activeConns map[*Connection]struct{}
	mu          sync.RWMutex
	inShutdown  atomic.Bool
	onShutdown  []func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Connection wraps one accepted socket and its buffered writer.
type Connection struct {
	conn   net.Conn
	writer *bufio.Writer

	server *Server

	state     atomic.Int32
	closeOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}
