package core

import "fmt"

// BehaviorType 是用户与视频的交互类型。只关心类型本身，不建模时间与顺序。
type BehaviorType string

const (
	BehaviorView    BehaviorType = "view"
	BehaviorLike    BehaviorType = "like"
	BehaviorShare   BehaviorType = "share"
	BehaviorComment BehaviorType = "comment"
)

// BehaviorTypes 是所有受支持的交互类型，按权重升序。
var BehaviorTypes = []BehaviorType{BehaviorView, BehaviorLike, BehaviorShare, BehaviorComment}

// Weight 返回交互类型对兴趣向量的贡献：view=1, like=2, share=3, comment=4。
// 未知类型返回 0。
func (t BehaviorType) Weight() float64 {
	switch t {
	case BehaviorView:
		return 1
	case BehaviorLike:
		return 2
	case BehaviorShare:
		return 3
	case BehaviorComment:
		return 4
	default:
		return 0
	}
}

// Valid 判断是否为受支持的交互类型。
func (t BehaviorType) Valid() bool {
	return t.Weight() > 0
}

// ParseBehaviorType 解析交互类型，未知类型返回 INVALID_INPUT。
func ParseBehaviorType(s string) (BehaviorType, error) {
	t := BehaviorType(s)
	if !t.Valid() {
		return "", NewDomainError(ModuleBehavior, ErrorCodeInvalidInput,
			fmt.Sprintf("behavior: unknown behavior_type %q", s))
	}
	return t, nil
}

// Behavior 是单个用户的一条交互事件。同一物品的多条事件累加。
type Behavior struct {
	ItemID int64        `json:"item_id"`
	Type   BehaviorType `json:"behavior_type"`
}
