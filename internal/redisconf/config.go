// Package redisconf holds the process-lifetime configuration snapshot and
// replication identity, both fixed at startup and never mutated by
// commands.
package redisconf

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Config is the immutable mapping of parameter names to values exposed via
// CONFIG GET, populated once from CLI options.
type Config struct {
	values map[string][]byte
}

// Options carries the CLI-supplied fields used to build a Config; a zero
// value for a given field means the option was absent.
type Options struct {
	Dir        string
	DBFilename string
	Port       int
}

// NewConfig builds a Config snapshot from opts, omitting entries whose
// corresponding CLI option was not supplied.
func NewConfig(opts Options) *Config {
	values := map[string][]byte{}
	if opts.Dir != "" {
		values["dir"] = []byte(opts.Dir)
	}
	if opts.DBFilename != "" {
		values["dbfilename"] = []byte(opts.DBFilename)
	}
	if opts.Port != 0 {
		values["port"] = []byte(fmt.Sprintf("%d", opts.Port))
	}
	return &Config{values: values}
}

// Get returns the value for name and whether it was present.
func (c *Config) Get(name []byte) ([]byte, bool) {
	v, ok := c.values[string(name)]
	return v, ok
}

// Role identifies whether the process is acting as a replication master or
// a replica of another instance.
type Role int

const (
	RoleMaster Role = iota
	RoleSlave
)

// ReplicationInfo is the fixed-for-process-lifetime replication identity
// reported by INFO.
type ReplicationInfo struct {
	Role             Role
	ConnectedSlaves  uint16
	MasterReplID     string
	MasterReplOffset uint32
}

// NewMasterReplicationInfo builds the replication identity for a process
// acting as master: a freshly generated 40-character ASCII alphanumeric
// replication ID and a zero offset.
func NewMasterReplicationInfo() *ReplicationInfo {
	return &ReplicationInfo{Role: RoleMaster, MasterReplID: randomReplID()}
}

// NewSlaveReplicationInfo builds the replication identity for a process
// configured with --replicaof.
func NewSlaveReplicationInfo() *ReplicationInfo {
	return &ReplicationInfo{Role: RoleSlave}
}

// randomReplID produces 40 ASCII alphanumeric characters by concatenating
// two random UUIDs with their hyphens stripped and truncating to length.
func randomReplID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:40]
}

// Report renders the ASCII, newline-separated INFO replication payload.
func (r *ReplicationInfo) Report() []byte {
	if r.Role == RoleSlave {
		return []byte("role:slave")
	}
	return []byte(fmt.Sprintf(
		"role:master\nmaster_replid:%s\nmaster_repl_offset:%d\nconnected_slaves:%d",
		r.MasterReplID, r.MasterReplOffset, r.ConnectedSlaves,
	))
}
