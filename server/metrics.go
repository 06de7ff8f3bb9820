package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	Connects          int64 // 建立的连接数
	Disconnects       int64 // 断开的连接数
	CommandsProcessed int64 // 成功处理的命令数
	CommandsRejected  int64 // 被拒绝的命令数（余额不足、未拥有、连接已断开等）
	InvalidFrames     int64 // 无法解析或未通过 schema 的帧
	SlowConsumers     int64 // 因发送队列满而被关闭的连接数
	FramesSent        int64 // 入队的出站帧数
}

func (m *RoomMetrics) IncConnects()          { atomic.AddInt64(&m.Connects, 1) }
func (m *RoomMetrics) IncDisconnects()       { atomic.AddInt64(&m.Disconnects, 1) }
func (m *RoomMetrics) IncProcessed()         { atomic.AddInt64(&m.CommandsProcessed, 1) }
func (m *RoomMetrics) IncRejected()          { atomic.AddInt64(&m.CommandsRejected, 1) }
func (m *RoomMetrics) IncInvalidFrames()     { atomic.AddInt64(&m.InvalidFrames, 1) }
func (m *RoomMetrics) IncSlowConsumers()     { atomic.AddInt64(&m.SlowConsumers, 1) }
func (m *RoomMetrics) AddFramesSent(n int64) { atomic.AddInt64(&m.FramesSent, n) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	return map[string]any{
		"connects":           atomic.LoadInt64(&m.Connects),
		"disconnects":        atomic.LoadInt64(&m.Disconnects),
		"commands_processed": atomic.LoadInt64(&m.CommandsProcessed),
		"commands_rejected":  atomic.LoadInt64(&m.CommandsRejected),
		"invalid_frames":     atomic.LoadInt64(&m.InvalidFrames),
		"slow_consumers":     atomic.LoadInt64(&m.SlowConsumers),
		"frames_sent":        atomic.LoadInt64(&m.FramesSent),
	}
}
