package utils

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// 41 位毫秒 | 10 位节点 | 12 位序号，纪元从 2026-01-01 UTC 起算
const (
	idEpoch   int64 = 1767225600000
	nodeWidth       = 10
	seqWidth        = 12
	maxNodeID int64 = 1<<nodeWidth - 1
	seqMask   int64 = 1<<seqWidth - 1
)

// Snowflake 生成 mysql 存档行的主键，同一节点内严格递增。
type Snowflake struct {
	mu   sync.Mutex
	node int64
	ms   int64
	seq  int64
}

func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > maxNodeID {
		return nil, fmt.Errorf("snowflake: node %d not in [0,%d]", node, maxNodeID)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := max(time.Now().UnixMilli(), s.ms)
	if now == s.ms {
		s.seq = (s.seq + 1) & seqMask
		// 同一毫秒序号用完，借用下一毫秒
		if s.seq == 0 {
			now++
		}
	} else {
		s.seq = 0
	}
	s.ms = now
	return (now-idEpoch)<<(nodeWidth+seqWidth) | s.node<<seqWidth | s.seq
}

var nodeIDs = sync.OnceValues(func() (*Snowflake, error) {
	node := int64(1)
	if raw := os.Getenv("DAWNFORGE_NODE_ID"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DAWNFORGE_NODE_ID: %w", err)
		}
		node = n
	}
	return NewSnowflake(node)
})

// NextSnowflakeID 使用进程级生成器，节点号取环境变量 DAWNFORGE_NODE_ID。
func NextSnowflakeID() (int64, error) {
	sf, err := nodeIDs()
	if err != nil {
		return 0, err
	}
	return sf.NextID(), nil
}
