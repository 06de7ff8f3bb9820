package server

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// shapes 新玩家随机分配的形状
var shapes = []string{"square", "rectangle", "triangle"}

// Registry 连接 → 玩家 的映射；玩家存在当且仅当其连接存活
// 只在事件循环线程中访问，不加锁
type Registry struct {
	players map[PlayerID]*Player

	catalog       *Catalog
	startingCoins int
	rng           *rand.Rand
	newID         func() PlayerID
}

// NewRegistry 创建注册表；rng 用于出生点与外观随机
func NewRegistry(c *Catalog, startingCoins int, rng *rand.Rand) *Registry {
	return &Registry{
		players:       make(map[PlayerID]*Player),
		catalog:       c,
		startingCoins: startingCoins,
		rng:           rng,
		newID:         func() PlayerID { return PlayerID(uuid.NewString()) },
	}
}

// Connect 为新连接创建玩家：出生安全区内随机位置、随机颜色与形状、初始金币与默认皮肤/主题
func (r *Registry) Connect(w *World) *Player {
	id := r.newID()
	minX, maxX, minY, maxY := w.SpawnRect()
	p := &Player{
		ID:          id,
		Username:    placeholderName(id),
		X:           minX + r.rng.Float64()*(maxX-minX),
		Y:           minY + r.rng.Float64()*(maxY-minY),
		Direction:   DirDown,
		Color:       fmt.Sprintf("#%06x", r.rng.Intn(1<<24)),
		Shape:       shapes[r.rng.Intn(len(shapes))],
		Skin:        r.catalog.DefaultSkin,
		Theme:       r.catalog.DefaultTheme,
		Coins:       r.startingCoins,
		OwnedSkins:  map[string]struct{}{r.catalog.DefaultSkin: {}},
		OwnedThemes: map[string]struct{}{r.catalog.DefaultTheme: {}},
	}
	r.players[id] = p
	return p
}

// Disconnect 移除玩家；不存在时为 no-op（连接可能在加入完成前就断开）
func (r *Registry) Disconnect(id PlayerID) (*Player, bool) {
	p, ok := r.players[id]
	if ok {
		delete(r.players, id)
	}
	return p, ok
}

// Get 查找玩家；每次修改前都必须检查，命令可能与断开竞争
func (r *Registry) Get(id PlayerID) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Len 在线玩家数
func (r *Registry) Len() int {
	return len(r.players)
}

// IDs 返回排序后的全部玩家 ID
func (r *Registry) IDs() []PlayerID {
	out := make([]PlayerID, 0, len(r.players))
	for id := range r.players {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Snapshot 全量状态，发给新连接 viewer：只有它自己的条目带私有字段
func (r *Registry) Snapshot(viewer PlayerID) map[PlayerID]PlayerSnapshot {
	out := make(map[PlayerID]PlayerSnapshot, len(r.players))
	for id, p := range r.players {
		if id == viewer {
			out[id] = p.Snapshot()
		} else {
			out[id] = p.Public()
		}
	}
	return out
}

// placeholderName 生成 Player-xxxxxx 形式的占位名（不保证唯一）
func placeholderName(id PlayerID) string {
	s := strings.ReplaceAll(string(id), "-", "")
	if len(s) > 6 {
		s = s[:6]
	}
	return "Player-" + s
}
