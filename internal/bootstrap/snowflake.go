package bootstrap

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/jt828/api-relay/pkg/snowflake"
	snowflakeImpl "github.com/jt828/api-relay/pkg/snowflake/implementation"
)

func InitializeSnowflake() (snowflake.Snowflake, error) {
	nodeID, err := PodNodeID()
	if err != nil {
		return nil, err
	}
	return snowflakeImpl.NewSnowflake(nodeID)
}

// PodNodeID derives a 10-bit snowflake node id from the pod hostname so
// replicas do not collide. Outside kubernetes it falls back to os.Hostname.
func PodNodeID() (int64, error) {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil || h == "" {
			return 0, fmt.Errorf("HOSTNAME is not set")
		}
		hostname = h
	}

	h := fnv.New64a()
	h.Write([]byte(hostname))
	nodeID := int64(binary.BigEndian.Uint64(h.Sum(nil)) % 1024)

	return nodeID, nil
}
