package feature

import (
	"strings"

	"github.com/rushteam/vidrec/core"
)

// TextEncoder 把目录编码为特征矩阵。
// 编码必须是目录文本与顺序的纯函数：相同输入得到逐位相同的矩阵。
type TextEncoder interface {
	Encode(videos []core.Video) *FeatureMatrix
}

// Text 返回视频的规范文本：title、description、label_names、category 以空格拼接。
// 空字段按空字符串处理。
func Text(v core.Video) string {
	return strings.Join([]string{v.Title, v.Description, v.LabelNames, v.Category}, " ")
}
