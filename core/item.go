package core

import "github.com/rushteam/vidrec/pkg/utils"

// Video 是目录中的一条视频记录，也是排序结果对外输出的形态。
// 字段缺失（NULL / 空）一律视为空字符串。
type Video struct {
	ItemID      int64  `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LabelNames  string `json:"label_names"`
	Category    string `json:"category"`
}

// Item 是推荐链路中的统一承载结构：原始记录、目录序号、分数、特征、标签。
// Index 是该物品在本次请求目录快照中的位置，打分矩阵的行列都按它编号。
type Item struct {
	ID       int64
	Index    int
	Video    Video
	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(v Video, index int) *Item {
	return &Item{
		ID:       v.ItemID,
		Index:    index,
		Video:    v,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Videos 按顺序取出 items 对应的原始记录。
func Videos(items []*Item) []Video {
	out := make([]Video, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.Video)
	}
	return out
}
