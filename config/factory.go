package config

import (
	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/feature"
	"github.com/rushteam/vidrec/filter"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/rank"
	"github.com/rushteam/vidrec/recall"
	"github.com/rushteam/vidrec/rerank"
)

// DefaultPipeline 返回内置的排序链路：
//
//	recall.user_history → recall.catalog → rank.content_cf → filter(watched) → rerank.topn
//
// 没有配置文件时使用；配置文件可以用同名 node type 重新编排。
func DefaultPipeline(deps *pipeline.Dependencies) *pipeline.Pipeline {
	if deps == nil {
		deps = &pipeline.Dependencies{}
	}
	rc := deps.Rank
	if rc == nil {
		rc = &core.DefaultRankConfig{}
	}

	return &pipeline.Pipeline{
		Name: "default",
		Nodes: []pipeline.Node{
			&recall.UserHistory{Behaviors: deps.Behaviors, WatchHistory: deps.WatchHistory},
			&recall.Catalog{Source: deps.Catalog},
			&rank.ContentCFNode{
				Encoder:  feature.NewTFIDFEncoder(feature.NewWordTokenizer(rc.DefaultMinTokenLen())),
				Workers:  rc.DefaultWorkers(),
				MaxItems: rc.DefaultMaxItems(),
			},
			&filter.FilterNode{Filters: []filter.Filter{filter.NewWatchedFilter()}},
			&rerank.TopNNode{},
		},
	}
}
