// Package vidrec 是基于内容相似度的视频排序服务。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Recall → Rank → Filter → ReRank）
// - 每次请求独立计算 TF-IDF 与余弦相似度矩阵，兴趣向量按 view=1 / like=2 / share=3 / comment=4 加权
// - Labels-first: labels 全链路透传与标准化 merge，便于 explain 与观测
package vidrec

import "github.com/rushteam/vidrec/pipeline"

// 轻量 facade：便于直接 import "vidrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindRank   = pipeline.KindRank
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
