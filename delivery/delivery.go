// Package delivery 把排序结果投递给下游消费者。
//
// 消息体是视频记录的 JSON 数组（字段完整保留），消息 key 为用户 ID。
// 默认队列/主题名为 DefaultTopic。
package delivery

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/metrics"
)

// DefaultTopic 是默认的投递队列名。
const DefaultTopic = "recommend_queue"

// Publisher 投递一个用户的排序结果。投递是同步的：返回 nil 即下游已确认。
type Publisher interface {
	Name() string
	Publish(ctx context.Context, userID int64, videos []core.Video) error
	Close() error
}

// Encode 把排序结果编码为 JSON 数组，空结果编码为 []。
func Encode(videos []core.Video) ([]byte, error) {
	if videos == nil {
		videos = []core.Video{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return nil, fmt.Errorf("delivery: encode: %w", err)
	}
	return data, nil
}

// Decode 解析消费端收到的消息体。
func Decode(data []byte) ([]core.Video, error) {
	var videos []core.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, core.WrapDomainError(core.ModuleDelivery, core.ErrorCodeInvalidInput,
			"delivery: malformed payload", err)
	}
	if videos == nil {
		videos = []core.Video{}
	}
	return videos, nil
}

// Key 返回消息 key（十进制用户 ID）。
func Key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// publishError 统一投递错误：DomainError 原样返回，其余视为下游不可用。
func publishError(name string, err error) error {
	if err == nil {
		metrics.RecordPublish(name, "ok")
		return nil
	}
	metrics.RecordPublish(name, "error")
	if core.IsDomainError(err) {
		return err
	}
	return core.WrapDomainError(core.ModuleDelivery, core.ErrorCodeUnavailable,
		fmt.Sprintf("delivery: %s publish failed", name), err)
}
