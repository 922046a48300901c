package rank

import "github.com/rushteam/vidrec/core"

// InterestVector 是用户在目录上的兴趣向量，下标与目录顺序一致。
type InterestVector []float64

// IndexOf 构建物品 ID 到目录下标的映射。
func IndexOf(videos []core.Video) map[int64]int {
	index := make(map[int64]int, len(videos))
	for i, v := range videos {
		index[v.ItemID] = i
	}
	return index
}

// BuildInterest 按行为类型权重累加兴趣向量：
// view=1, like=2, share=3, comment=4。
// 同一物品的多次行为相加，不封顶也不衰减；目录中不存在的物品和未知行为类型被忽略。
func BuildInterest(index map[int64]int, n int, behaviors []core.Behavior) InterestVector {
	interest := make(InterestVector, n)
	for _, b := range behaviors {
		i, ok := index[b.ItemID]
		if !ok || i < 0 || i >= n {
			continue
		}
		interest[i] += b.Type.Weight()
	}
	return interest
}
