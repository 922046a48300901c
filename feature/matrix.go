package feature

import "math"

// SparseVector 是按列号升序存储的稀疏行向量。
// 所有按下标累加的运算都按 Indices 顺序进行，保证结果逐位可复现。
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len 返回非零元素个数。
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// Norm 返回 L2 范数。
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot 计算两个稀疏向量的点积（有序归并）。
func (v SparseVector) Dot(o SparseVector) float64 {
	var (
		sum  float64
		i, j int
	)
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// normalize 原地做 L2 归一化，零向量保持为零。
func (v SparseVector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for k := range v.Values {
		v.Values[k] /= n
	}
}

// FeatureMatrix 是目录的 TF-IDF 特征矩阵：每个物品一行（目录顺序），每个词项一列。
// 行数恒等于目录规模；每行的 L2 范数为 0 或 1。
type FeatureMatrix struct {
	// Vocabulary 是按字典序排列的词表，下标即列号
	Vocabulary []string
	// IDF 与 Vocabulary 一一对应
	IDF  []float64
	Rows []SparseVector
}

// Len 返回行数（物品数）。
func (m *FeatureMatrix) Len() int {
	return len(m.Rows)
}

// Dim 返回列数（词表大小）。
func (m *FeatureMatrix) Dim() int {
	return len(m.Vocabulary)
}

// Row 返回第 i 行。
func (m *FeatureMatrix) Row(i int) SparseVector {
	return m.Rows[i]
}
