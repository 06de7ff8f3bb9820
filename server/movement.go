package server

// MoveResult 一次移动的请求值与裁剪后的实际生效值
// 两者不同说明发送方的本地预测需要按服务端结果校正
type MoveResult struct {
	RequestedX float64
	RequestedY float64
	X          float64
	Y          float64
	Direction  Direction
	Clamped    bool
}

// ApplyMove 按当前世界尺寸裁剪目标位置，推导朝向并写回玩家
// 不做速度/瞬移校验：除边界外信任客户端上报
func ApplyMove(p *Player, size WorldSize, x, y float64, hint Direction) MoveResult {
	dir := deriveDirection(x-p.X, y-p.Y, p.Direction, hint)
	ax := clamp(x, 0, size.Width)
	ay := clamp(y, 0, size.Height)

	p.X, p.Y, p.Direction = ax, ay, dir
	return MoveResult{
		RequestedX: x,
		RequestedY: y,
		X:          ax,
		Y:          ay,
		Direction:  dir,
		Clamped:    ax != x || ay != y,
	}
}

// deriveDirection 取绝对值更大的分量决定朝向，|dx|==|dy| 时竖直方向优先（沿用旧行为）
// 零位移：采用合法的客户端提示，否则保持原朝向
func deriveDirection(dx, dy float64, prev, hint Direction) Direction {
	if dx == 0 && dy == 0 {
		if hint.Valid() {
			return hint
		}
		return prev
	}
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

// clamp 越界裁剪；NaN 视为下界
func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
