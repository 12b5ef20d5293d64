package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

func snowflakeNode() *snowflake.Node {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if env := os.Getenv("SNOWFLAKE_NODE"); env != "" {
			if parsed, err := strconv.ParseInt(env, 10, 64); err == nil {
				nodeID = parsed
			}
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			// node id out of range; snowflake accepts 0-1023
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	return node
}

// NewSnowflakeID generates a snowflake ID as int64, suitable for row keys.
// The node ID comes from SNOWFLAKE_NODE, defaulting to 1.
func NewSnowflakeID() int64 {
	return snowflakeNode().Generate().Int64()
}
