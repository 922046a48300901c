package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pipeline"
)

// 配置驱动的 pipeline 需要在入口 import _ "github.com/rushteam/vidrec/config/builders"，
// 内置 node type 在该包的 init 中注册。

// NodeBuilder 同 pipeline.NodeBuilder。
type NodeBuilder = pipeline.NodeBuilder

// registry 是 node type → builder 的全局表。
type registry struct {
	mu       sync.RWMutex
	builders map[string]NodeBuilder
}

var nodes = &registry{builders: make(map[string]NodeBuilder)}

// Register 注册一种 node type，重复注册时后者覆盖前者。空名或 nil builder 被忽略。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	nodes.mu.Lock()
	nodes.builders[typeName] = builder
	nodes.mu.Unlock()
}

// SupportedTypes 返回已注册的 node type，按字典序。
func SupportedTypes() []string {
	nodes.mu.RLock()
	defer nodes.mu.RUnlock()
	types := make([]string, 0, len(nodes.builders))
	for t := range nodes.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func registered(typeName string) bool {
	nodes.mu.RLock()
	defer nodes.mu.RUnlock()
	_, ok := nodes.builders[typeName]
	return ok
}

// DefaultFactory 用当前注册表的快照构建 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	nodes.mu.RLock()
	defer nodes.mu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range nodes.builders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 在构建前一次性列出所有未注册或缺失的 node type。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	var unknown []string
	for i, nc := range cfg.Pipeline.Nodes {
		switch {
		case nc.Type == "":
			unknown = append(unknown, fmt.Sprintf("nodes[%d]: <empty>", i))
		case !registered(nc.Type):
			unknown = append(unknown, fmt.Sprintf("nodes[%d]: %s", i, nc.Type))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotSupported,
		fmt.Sprintf("unsupported node types %s (supported: %s)",
			strings.Join(unknown, ", "), strings.Join(SupportedTypes(), ", ")))
}
