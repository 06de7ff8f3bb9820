package server

import "sort"

// PlayerID 表示玩家唯一标识（每个连接一个，连接存活期间不变）
type PlayerID string

// Direction 朝向，由最近一次非零位移推导
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Valid 判断是否为四个合法朝向之一
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// Player 一个存活连接对应的服务端权威状态
type Player struct {
	ID        PlayerID
	Username  string
	X         float64
	Y         float64
	Direction Direction
	Color     string
	Shape     string

	Skin        string
	Theme       string
	Coins       int
	OwnedSkins  map[string]struct{}
	OwnedThemes map[string]struct{}
}

// PlayerSnapshot 发给客户端的玩家快照
// Private 为 nil 时只含公开字段；余额、已拥有物品与主题只发给本人
type PlayerSnapshot struct {
	ID        PlayerID  `json:"id"`
	Username  string    `json:"username"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
	Color     string    `json:"color"`
	Shape     string    `json:"shape"`
	Skin      string    `json:"skin"`
	*Private
}

// Private 仅本人可见的部分
type Private struct {
	Theme       string   `json:"theme"`
	Coins       int      `json:"coins"`
	OwnedSkins  []string `json:"ownedSkins"`
	OwnedThemes []string `json:"ownedThemes"`
}

// Public 其他玩家看到的快照
func (p *Player) Public() PlayerSnapshot {
	return PlayerSnapshot{
		ID:        p.ID,
		Username:  p.Username,
		X:         p.X,
		Y:         p.Y,
		Direction: p.Direction,
		Color:     p.Color,
		Shape:     p.Shape,
		Skin:      p.Skin,
	}
}

// Snapshot 本人的完整快照（集合按字典序输出，保证稳定）
func (p *Player) Snapshot() PlayerSnapshot {
	s := p.Public()
	s.Private = &Private{
		Theme:       p.Theme,
		Coins:       p.Coins,
		OwnedSkins:  sortedKeys(p.OwnedSkins),
		OwnedThemes: sortedKeys(p.OwnedThemes),
	}
	return s
}

// Owns 判断某类目下的物品是否已拥有
func (p *Player) Owns(kind CatalogKind, item string) bool {
	var set map[string]struct{}
	switch kind {
	case KindSkin:
		set = p.OwnedSkins
	case KindTheme:
		set = p.OwnedThemes
	}
	_, ok := set[item]
	return ok
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
