package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init sets the node used for ID generation.
// Node ID should be unique across all instances (0-1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NextID generates a new unique snowflake ID. Node 0 is used when Init
// was never called.
func NextID() int64 {
	mu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(0)
	}
	n := node
	mu.Unlock()
	return n.Generate().Int64()
}
