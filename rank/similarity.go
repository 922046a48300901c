package rank

import (
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/vidrec/feature"
)

// SimilarityMatrix 是 N×N 的物品相似度矩阵，行优先存储。
// 矩阵对称；非零行的对角线为 1，零行的整行为 0。
type SimilarityMatrix struct {
	n    int
	data []float64
}

// Len 返回物品数 N。
func (m *SimilarityMatrix) Len() int {
	return m.n
}

// At 返回 sim(i, j)。
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row 返回第 i 行（共享底层存储，调用方不得修改）。
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// cosine 由点积与两个范数得到余弦相似度，任一范数为 0 时返回 0，结果截断到 [-1, 1]。
func cosine(dot, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (na * nb)
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}

// BuildSimilarity 计算特征矩阵的两两余弦相似度。
//
// 只计算上三角并镜像到下三角，对称性是精确的。
// workers > 1 时按行并行，每个 goroutine 只写自己负责的行 i 的上三角
// 以及各列 j 的 (j, i) 位置，写入位置互不重叠。
func BuildSimilarity(fm *feature.FeatureMatrix, workers int) *SimilarityMatrix {
	n := fm.Len()
	sim := &SimilarityMatrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return sim
	}

	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = fm.Row(i).Norm()
	}

	fillRow := func(i int) {
		if norms[i] == 0 {
			return
		}
		ri := fm.Row(i)
		sim.data[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			s := cosine(ri.Dot(fm.Row(j)), norms[i], norms[j])
			sim.data[i*n+j] = s
			sim.data[j*n+i] = s
		}
	}

	if workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			fillRow(i)
		}
		return sim
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fillRow(i)
			return nil
		})
	}
	_ = g.Wait()
	return sim
}
