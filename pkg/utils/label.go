package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由各节点自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / rank / filter / rerank ...
}

// 各节点写入的标准 label key。
const (
	LabelRecallSource = "recall_source"
	LabelRankModel    = "rank_model"
	LabelInterest     = "interest"
	LabelFiltered     = "filtered"
)

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// LabelValues 把 labels 压平成 key -> value，供表达式求值使用。
func LabelValues(labels map[string]Label) map[string]any {
	out := make(map[string]any, len(labels))
	for k, v := range labels {
		out[k] = v.Value
	}
	return out
}
