package rank

import (
	"fmt"
	"sort"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/feature"
)

// Project 计算 score = S · interest，即 score[j] = Σ_i sim(i,j) * interest[i]。
// 只遍历兴趣非零的行，累加顺序固定为目录顺序。
func Project(sim *SimilarityMatrix, interest InterestVector) []float64 {
	n := sim.Len()
	scores := make([]float64, n)
	for i := 0; i < n && i < len(interest); i++ {
		w := interest[i]
		if w == 0 {
			continue
		}
		row := sim.Row(i)
		for j := 0; j < n; j++ {
			scores[j] += row[j] * w
		}
	}
	return scores
}

// RankIndices 返回按分数降序排列的目录下标，同分按目录顺序。
func RankIndices(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// Scorer 是内容协同过滤打分器：TF-IDF 编码 → 相似度矩阵 → 兴趣投影。
type Scorer struct {
	Encoder feature.TextEncoder

	// Workers 相似度矩阵并发数，<= 1 时串行
	Workers int

	// MaxItems 目录规模上限，<= 0 时不限制
	MaxItems int
}

// Result 是一次打分的中间产物，便于调试与测试。
type Result struct {
	Features   *feature.FeatureMatrix
	Similarity *SimilarityMatrix
	Interest   InterestVector
	Scores     []float64
	// Order 是按分数降序的目录下标
	Order []int
}

// Score 对目录打分。未命中目录的行为被忽略；没有行为时所有分数为 0，顺序即目录顺序。
func (s *Scorer) Score(videos []core.Video, behaviors []core.Behavior) (*Result, error) {
	if s.MaxItems > 0 && len(videos) > s.MaxItems {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeResourceExhausted,
			fmt.Sprintf("scorer: catalog size %d exceeds max_items %d", len(videos), s.MaxItems))
	}

	enc := s.Encoder
	if enc == nil {
		enc = feature.NewTFIDFEncoder(nil)
	}

	fm := enc.Encode(videos)
	sim := BuildSimilarity(fm, s.Workers)
	interest := BuildInterest(IndexOf(videos), len(videos), behaviors)
	scores := Project(sim, interest)

	return &Result{
		Features:   fm,
		Similarity: sim,
		Interest:   interest,
		Scores:     scores,
		Order:      RankIndices(scores),
	}, nil
}

// Rank 是不经过 Pipeline 的完整排序：打分、排除已观看、截取前 topN 条。
// topN 为 0 时返回空结果；可选物品不足 topN 时全部返回。
func (s *Scorer) Rank(videos []core.Video, behaviors []core.Behavior, watched map[int64]struct{}, topN int) ([]core.Video, error) {
	if topN < 0 {
		return nil, core.NewDomainError(core.ModuleRequest, core.ErrorCodeInvalidInput,
			fmt.Sprintf("scorer: invalid top_n %d", topN))
	}
	res, err := s.Score(videos, behaviors)
	if err != nil {
		return nil, err
	}

	out := make([]core.Video, 0, min(topN, len(videos)))
	for _, idx := range res.Order {
		if len(out) >= topN {
			break
		}
		v := videos[idx]
		if _, ok := watched[v.ItemID]; ok {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
