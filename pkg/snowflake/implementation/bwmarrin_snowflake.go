package implementation

import (
	bwmarrin "github.com/bwmarrin/snowflake"
	"github.com/jt828/api-relay/pkg/snowflake"
)

type bwmarrinSnowflake struct {
	node *bwmarrin.Node
}

// NewSnowflake returns a generator for the given node (0-1023). Ids are
// unique across nodes and increase monotonically within one node.
func NewSnowflake(nodeID int64) (snowflake.Snowflake, error) {
	node, err := bwmarrin.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &bwmarrinSnowflake{node: node}, nil
}

func (s *bwmarrinSnowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
