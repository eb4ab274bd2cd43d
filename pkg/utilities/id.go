package utilities

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// DefaultIDNode is used when SetIDNode has not been called.
const DefaultIDNode int64 = 1

var (
	nodeMu sync.Mutex
	node   *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// SetIDNode selects the snowflake node used by NewID. Each running instance
// needs its own node in 0..1023.
func SetIDNode(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

// NewID returns a record identifier. Snowflake IDs sort by creation time.
func NewID() string {
	nodeMu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(DefaultIDNode)
	}
	n := node
	nodeMu.Unlock()
	return n.Generate().String()
}
