package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

var (
	nodeMu sync.Mutex
	node   *snowflake.Node
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewSuperkey returns a fresh account recovery key. It is shown to the owner
// once; only its digest is stored.
func NewSuperkey() string {
	return ksuid.New().String()
}

// InitLedgerNode selects the snowflake node used for ledger references.
// Each running instance must use a distinct node id.
func InitLedgerNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

// NewLedgerReference returns a time ordered reference for an account
// transaction, e.g. "TX1541815603606036480".
func NewLedgerReference() string {
	nodeMu.Lock()
	if node == nil {
		// node 1 until InitLedgerNode runs, which keeps tests self contained
		node, _ = snowflake.NewNode(1)
	}
	n := node
	nodeMu.Unlock()
	return "TX" + n.Generate().String()
}
