package server

import (
	"context"
	"errors"
)

// ErrRoomClosed 事件循环已停止
var ErrRoomClosed = errors.New("room closed")

// Room 单房间：权威状态维护在内存，由单个事件循环线程逐条处理输入
type Room struct {
	state     *State
	validator *PayloadValidator
	metrics   *RoomMetrics

	conns map[PlayerID]*ClientConn
	inbox chan Input
	done  chan struct{}
}

// NewRoom 创建房间；validator 可为 nil（跳过 schema 校验）
func NewRoom(st *State, validator *PayloadValidator) *Room {
	return &Room{
		state:     st,
		validator: validator,
		metrics:   &RoomMetrics{},
		conns:     make(map[PlayerID]*ClientConn),
		inbox:     make(chan Input, 256),
		done:      make(chan struct{}),
	}
}

// Metrics 运行指标（原子读写，可跨协程访问）
func (r *Room) Metrics() *RoomMetrics {
	return r.metrics
}

// Submit 投递输入；阻塞写入以保证同一连接的命令按序处理，循环停止后立即返回
func (r *Room) Submit(ctx context.Context, in Input) error {
	select {
	case r.inbox <- in:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join 在循环线程中创建玩家并登记连接，返回分配的 ID
func (r *Room) Join(ctx context.Context, conn *ClientConn) (PlayerID, error) {
	reply := make(chan PlayerID, 1)
	if err := r.Submit(ctx, Input{Kind: inputJoin, conn: conn, joined: reply}); err != nil {
		return "", err
	}
	select {
	case id := <-reply:
		return id, nil
	case <-r.done:
		return "", ErrRoomClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// RequestLeave 请求在循环线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(id PlayerID) {
	_ = r.Submit(context.Background(), Input{Kind: inputLeave, PlayerID: id})
}

// Inspect 在循环线程内执行只读查询（管理接口用）
func (r *Room) Inspect(ctx context.Context, fn func(st *State)) error {
	done := make(chan struct{})
	if err := r.Submit(ctx, Input{Kind: inputQuery, query: fn, done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// process 处理一条输入：查找 → 修改 → 分发，全部在本线程内完成
func (r *Room) process(in Input) {
	switch in.Kind {
	case inputJoin:
		p, outs := HandleConnect(r.state)
		r.conns[p.ID] = in.conn
		r.metrics.IncConnects()
		Log.Infow("player joined", "player", p.ID, "username", p.Username, "x", p.X, "y", p.Y, "online", r.state.Players.Len())
		in.joined <- p.ID
		r.dispatch(p.ID, outs)

	case inputLeave:
		if c, ok := r.conns[in.PlayerID]; ok {
			c.Close()
			delete(r.conns, in.PlayerID)
		}
		outs := HandleDisconnect(r.state, in.PlayerID)
		if outs != nil {
			r.metrics.IncDisconnects()
			Log.Infow("player left", "player", in.PlayerID, "online", r.state.Players.Len())
		}
		r.dispatch(in.PlayerID, outs)

	case inputCommand:
		r.command(in)

	case inputQuery:
		in.query(r.state)
		close(in.done)
	}
}

func (r *Room) command(in Input) {
	if r.validator != nil {
		if err := r.validator.Validate(in.Type, in.Data); err != nil {
			r.metrics.IncInvalidFrames()
			Log.Debugw("invalid command", "player", in.PlayerID, "type", in.Type, "err", err)
			return
		}
	}
	outs, err := Handle(r.state, in.PlayerID, in.Type, in.Data)
	if err != nil {
		r.metrics.IncRejected()
		if isQuietRejection(err) {
			Log.Debugw("command rejected", "player", in.PlayerID, "type", in.Type, "err", err)
		} else {
			Log.Infow("command rejected", "player", in.PlayerID, "type", in.Type, "err", err)
		}
	} else {
		r.metrics.IncProcessed()
	}
	r.dispatch(in.PlayerID, outs)
}

// dispatch 按受众把事件压入各连接的发送队列（非阻塞，慢连接直接关闭）
func (r *Room) dispatch(origin PlayerID, outs []Outbound) {
	for _, o := range outs {
		b, err := o.Encode()
		if err != nil {
			Log.Errorw("encode event", "event", o.Event, "err", err)
			continue
		}
		switch o.Audience {
		case SenderOnly:
			if c, ok := r.conns[origin]; ok {
				r.send(origin, c, b)
			}
		case OthersOnly:
			for id, c := range r.conns {
				if id != origin {
					r.send(id, c, b)
				}
			}
		case All:
			for id, c := range r.conns {
				r.send(id, c, b)
			}
		}
	}
}

func (r *Room) send(id PlayerID, c *ClientConn, b []byte) {
	if c.Enqueue(b) {
		r.metrics.AddFramesSent(1)
		return
	}
	if c.Kick() {
		// 读协程随之退出并投递 leave，走正常断开流程
		r.metrics.IncSlowConsumers()
		Log.Warnw("send queue full, closing slow connection", "player", id)
	}
}

// shutdown 循环退出时关闭所有连接
func (r *Room) shutdown() {
	for id, c := range r.conns {
		c.Close()
		delete(r.conns, id)
	}
}
