package delivery

import (
	"context"
	"io"
	"sync"

	"github.com/rushteam/vidrec/core"
)

// WriterPublisher 把结果写到 io.Writer，每次投递一行 JSON 数组。
// 用于命令行输出与调试。
type WriterPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterPublisher(w io.Writer) *WriterPublisher {
	return &WriterPublisher{w: w}
}

func (p *WriterPublisher) Name() string { return "writer" }

func (p *WriterPublisher) Publish(_ context.Context, _ int64, videos []core.Video) error {
	data, err := Encode(videos)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.w.Write(append(data, '\n'))
	return publishError(p.Name(), err)
}

func (p *WriterPublisher) Close() error { return nil }

var _ Publisher = (*WriterPublisher)(nil)
