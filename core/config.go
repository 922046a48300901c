package core

import "runtime"

// RankConfig 是打分相关的配置接口，用于提供默认值。
type RankConfig interface {
	// DefaultTopN 返回默认的返回条数
	DefaultTopN() int

	// DefaultWorkers 返回相似度矩阵计算的默认并发数
	DefaultWorkers() int

	// DefaultMaxItems 返回单次请求允许的最大目录规模（N×N 矩阵须放进内存）
	DefaultMaxItems() int

	// DefaultMinTokenLen 返回分词保留的最短词长（按 rune 计）
	DefaultMinTokenLen() int
}

// DefaultRankConfig 是默认的打分配置实现。
type DefaultRankConfig struct{}

func (c *DefaultRankConfig) DefaultTopN() int {
	return DefaultTopN
}

func (c *DefaultRankConfig) DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// 10000 个物品的稠密相似度矩阵约 800MB。
func (c *DefaultRankConfig) DefaultMaxItems() int {
	return 10000
}

func (c *DefaultRankConfig) DefaultMinTokenLen() int {
	return 2
}
