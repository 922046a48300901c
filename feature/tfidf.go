package feature

import (
	"math"
	"sort"

	"github.com/rushteam/vidrec/core"
)

// TFIDFEncoder 基于目录自身词表计算 TF-IDF 特征。
//
// 权重：w(t,i) = tf(t,i) * idf(t)
//   - tf 为词项在物品文本中的出现次数
//   - idf(t) = ln((1+N)/(1+df(t))) + 1（平滑 IDF，N 为目录规模，df 为包含 t 的物品数）
//
// 每行做 L2 归一化，因此两行的点积即余弦相似度。没有任何词项的物品得到零行。
type TFIDFEncoder struct {
	Tokenizer Tokenizer
}

// NewTFIDFEncoder 创建编码器，tokenizer 为 nil 时使用默认 WordTokenizer。
func NewTFIDFEncoder(tokenizer Tokenizer) *TFIDFEncoder {
	if tokenizer == nil {
		tokenizer = NewWordTokenizer(0)
	}
	return &TFIDFEncoder{Tokenizer: tokenizer}
}

func (e *TFIDFEncoder) Encode(videos []core.Video) *FeatureMatrix {
	tokenizer := e.Tokenizer
	if tokenizer == nil {
		tokenizer = NewWordTokenizer(0)
	}

	n := len(videos)

	// 1. 词频与文档频率
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, v := range videos {
		tf := make(map[string]int)
		for _, tok := range tokenizer.Tokenize(Text(v)) {
			tf[tok]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	// 2. 词表按字典序，列号稳定
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	terms := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for col, term := range vocab {
		terms[term] = col
		idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	// 3. 行向量：列号升序，归一化
	rows := make([]SparseVector, n)
	for i, tf := range counts {
		cols := make([]int, 0, len(tf))
		for term := range tf {
			cols = append(cols, terms[term])
		}
		sort.Ints(cols)

		row := SparseVector{
			Indices: cols,
			Values:  make([]float64, len(cols)),
		}
		for k, col := range cols {
			row.Values[k] = float64(tf[vocab[col]]) * idf[col]
		}
		row.normalize()
		rows[i] = row
	}

	return &FeatureMatrix{
		Vocabulary: vocab,
		IDF:        idf,
		Rows:       rows,
	}
}

var _ TextEncoder = (*TFIDFEncoder)(nil)
