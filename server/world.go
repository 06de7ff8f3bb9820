package server

import "fmt"

// WorldSize 地图尺寸
type WorldSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// World 全房间共享的世界配置：任意客户端上报即可覆盖（后写者胜，无冲突合并）
type World struct {
	size        WorldSize
	spawnMargin float64
}

// NewWorld 创建世界配置；spawnMargin 为出生点距各边的最小距离
func NewWorld(width, height, spawnMargin float64) *World {
	return &World{size: WorldSize{Width: width, Height: height}, spawnMargin: spawnMargin}
}

// Size 返回当前生效的尺寸
func (w *World) Size() WorldSize {
	return w.size
}

// Update 无条件覆盖尺寸；仅校验为正数
// 已在场玩家不会被重新裁剪，下一次移动时按新边界裁剪
func (w *World) Update(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidDimensions, width, height)
	}
	w.size = WorldSize{Width: width, Height: height}
	return nil
}

// SpawnRect 出生安全区 [minX,maxX]×[minY,maxY]
// 某轴宽度不足两倍边距时，该轴退化为中点
func (w *World) SpawnRect() (minX, maxX, minY, maxY float64) {
	minX, maxX = insetAxis(w.size.Width, w.spawnMargin)
	minY, maxY = insetAxis(w.size.Height, w.spawnMargin)
	return
}

func insetAxis(length, margin float64) (lo, hi float64) {
	if length < 2*margin {
		return length / 2, length / 2
	}
	return margin, length - margin
}
