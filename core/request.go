package core

import "fmt"

// DefaultTopN 是未指定 top_n 时返回的条数。
const DefaultTopN = 10

// RankRequest 是一次排序请求：为哪个用户、返回多少条。
type RankRequest struct {
	UserID int64 `json:"user_id"`
	TopN   int   `json:"top_n"`
}

// NewRankRequest 创建使用默认 TopN 的请求。
func NewRankRequest(userID int64) RankRequest {
	return RankRequest{UserID: userID, TopN: DefaultTopN}
}

// Validate 校验请求。user_id 必须为正；top_n 不能为负，0 合法（返回空结果）。
func (r RankRequest) Validate() error {
	if r.UserID <= 0 {
		return NewDomainError(ModuleRequest, ErrorCodeInvalidInput,
			fmt.Sprintf("request: invalid user_id %d", r.UserID))
	}
	if r.TopN < 0 {
		return NewDomainError(ModuleRequest, ErrorCodeInvalidInput,
			fmt.Sprintf("request: invalid top_n %d", r.TopN))
	}
	return nil
}
