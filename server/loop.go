package server

import (
	"context"
	"time"
)

// statsInterval 周期性输出运行指标的间隔
var statsInterval = 30 * time.Second

// Run 启动房间事件循环（单线程推进状态），直到 ctx 取消
// 每条输入处理到底再取下一条：查找 → 修改 → 分发
func (r *Room) Run(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	defer close(r.done)
	defer r.shutdown()

	for {
		select {
		case <-ctx.Done():
			Log.Infow("room loop stopped", "online", r.state.Players.Len())
			return
		case in := <-r.inbox:
			r.process(in)
		case <-ticker.C:
			Log.Infow("room stats", "online", r.state.Players.Len(), "metrics", r.metrics.Snapshot())
		}
	}
}
