package uuid

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// GenUUID16 生成16位的请求id
func GenUUID16() string {
	u := uuid.New()
	s := strings.ReplaceAll(u.String(), "-", "")
	return s[:16]
}

// SnowNode 雪花id节点，用于生成递增且全局唯一的信号id
type SnowNode struct {
	node *snowflake.Node
}

func NewNode(nodeId int64) *SnowNode {
	n, err := snowflake.NewNode(nodeId)
	if err != nil {
		panic(err)
	}
	return &SnowNode{node: n}
}

// GenSnowId 生成一个雪花id
func (s *SnowNode) GenSnowId() int64 {
	return s.node.Generate().Int64()
}
