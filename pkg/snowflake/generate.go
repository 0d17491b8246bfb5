package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType 区分不同业务的 ID 序列
type GeneratorType int

const (
	GeneratorTypeEntity GeneratorType = iota // 用户、提交、罚款等持久化实体
	GeneratorTypeMessage                     // MQ 消息 ID
)

var (
	nodes map[GeneratorType]*snowflake.Node
	once  sync.Once

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 15 {
			initErr = errInvalidMachineID
			return
		}
		// datacenterID 和 machineID 组合出 nodeID，再为每类序列错开一位
		base := (dataCenterID << 5) | (machineID << 1)

		nodes = make(map[GeneratorType]*snowflake.Node, 2)
		for _, t := range []GeneratorType{GeneratorTypeEntity, GeneratorTypeMessage} {
			node, err := snowflake.NewNode(base | int64(t))
			if err != nil {
				initErr = err
				return
			}
			nodes[t] = node
		}
	})

	return initErr
}

func NextID(t GeneratorType) (int64, error) {
	if nodes == nil {
		return 0, errGeneratorUninitial
	}

	node, ok := nodes[t]
	if !ok {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}
