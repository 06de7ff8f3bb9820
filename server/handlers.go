package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Limits 文本类命令的长度上限（按字符计）
type Limits struct {
	MaxUsernameLength int
	MaxChatLength     int
}

// State 一个房间的全部共享可变状态；由服务实例持有并按引用传给处理器，不使用包级全局
type State struct {
	Players *Registry
	World   *World
	Catalog *Catalog
	Ledger  *Ledger
	Limits  Limits
	Now     func() time.Time
}

// NewState 组装房间状态
func NewState(players *Registry, world *World, catalog *Catalog, limits Limits) *State {
	return &State{
		Players: players,
		World:   world,
		Catalog: catalog,
		Ledger:  NewLedger(catalog),
		Limits:  limits,
		Now:     time.Now,
	}
}

// HandlerFunc 命令处理器：(状态, 发起连接, 载荷) → 待分发事件
// 返回 error 表示请求被拒绝；即便有 error，返回的事件（如拒绝回执）仍会分发
type HandlerFunc func(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error)

// handlers 命令分发表，每个处理器是其目标字段的唯一写入者
var handlers = map[string]HandlerFunc{
	CmdPlayerMove:          handleMove,
	CmdChatMessage:         handleChat,
	CmdSetUsername:         handleSetUsername,
	CmdPurchaseSkin:        handlePurchaseSkin,
	CmdSelectSkin:          handleSelectSkin,
	CmdPurchaseTheme:       handlePurchaseTheme,
	CmdSelectTheme:         handleSelectTheme,
	CmdUpdateMapDimensions: handleUpdateMapDimensions,
}

// Handle 查表执行一条客户端命令
func Handle(st *State, id PlayerID, cmd string, data json.RawMessage) ([]Outbound, error) {
	h, ok := handlers[cmd]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, cmd)
	}
	return h(st, id, data)
}

// HandleConnect 新连接：全量快照给本人，公开快照给其他人
func HandleConnect(st *State) (*Player, []Outbound) {
	p := st.Players.Connect(st.World)
	return p, []Outbound{
		emit(EvGameState, st.Players.Snapshot(p.ID)),
		emit(EvPlayerJoined, p.Public()),
	}
}

// HandleDisconnect 断开：玩家存在才广播离开
func HandleDisconnect(st *State, id PlayerID) []Outbound {
	if _, ok := st.Players.Disconnect(id); !ok {
		return nil
	}
	return []Outbound{emit(EvPlayerLeft, id)}
}

func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func handleMove(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req MoveRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	res := ApplyMove(p, st.World.Size(), req.X, req.Y, req.Direction)
	moved := MovedPayload{ID: id, X: res.X, Y: res.Y, Direction: res.Direction}
	out := []Outbound{emit(EvPlayerMoved, moved)}
	if res.Clamped {
		out = append(out, emit(EvPositionCorrected, moved))
	}
	return out, nil
}

func handleChat(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var text string
	if err := decode(data, &text); err != nil {
		return nil, err
	}
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	text = truncateRunes(strings.TrimSpace(text), st.Limits.MaxChatLength)
	if text == "" {
		return nil, nil
	}
	return []Outbound{emit(EvNewMessage, ChatMessage{
		ID:        id,
		Sender:    p.Username,
		Text:      text,
		Timestamp: st.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})}, nil
}

func handleSetUsername(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var name string
	if err := decode(data, &name); err != nil {
		return nil, err
	}
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	name = truncateRunes(strings.TrimSpace(name), st.Limits.MaxUsernameLength)
	if name == "" {
		return nil, nil
	}
	old := p.Username
	p.Username = name
	return []Outbound{emit(EvUsernameChanged, UsernameChangedPayload{
		ID:          id,
		OldUsername: old,
		NewUsername: name,
	})}, nil
}

func handlePurchaseSkin(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req PurchaseSkinRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return purchase(st, id, CmdPurchaseSkin, KindSkin, req.SkinName, req.Price)
}

func handlePurchaseTheme(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req PurchaseThemeRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return purchase(st, id, CmdPurchaseTheme, KindTheme, req.ThemeID, req.Price)
}

// purchase 价格以价目表为准，客户端上报的价格只用于排查
func purchase(st *State, id PlayerID, action string, kind CatalogKind, item string, reported *int) ([]Outbound, error) {
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	if it, known := st.Catalog.Lookup(kind, item); known && reported != nil && *reported != it.Price {
		Log.Debugw("client price mismatch", "player", id, "kind", kind, "item", item, "reported", *reported, "price", it.Price)
	}
	if _, err := st.Ledger.Purchase(p, kind, item); err != nil {
		return []Outbound{rejected(action, item, err)}, err
	}
	return []Outbound{emit(EvCoinsUpdated, CoinsPayload{Coins: p.Coins})}, nil
}

func handleSelectSkin(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req SelectSkinRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	if err := st.Ledger.Select(p, KindSkin, req.SkinName); err != nil {
		return []Outbound{rejected(CmdSelectSkin, req.SkinName, err)}, err
	}
	return []Outbound{emit(EvSkinChanged, SkinChangedPayload{ID: id, Skin: p.Skin, Username: p.Username})}, nil
}

func handleSelectTheme(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req SelectThemeRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	p, ok := st.Players.Get(id)
	if !ok {
		return nil, ErrConnectionGone
	}
	if err := st.Ledger.Select(p, KindTheme, req.ThemeID); err != nil {
		return []Outbound{rejected(CmdSelectTheme, req.ThemeID, err)}, err
	}
	return []Outbound{emit(EvThemeChanged, ThemeChangedPayload{ID: id, Theme: p.Theme})}, nil
}

// handleUpdateMapDimensions 后写者胜：并发上报不做协调
func handleUpdateMapDimensions(st *State, id PlayerID, data json.RawMessage) ([]Outbound, error) {
	var req WorldSize
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if _, ok := st.Players.Get(id); !ok {
		return nil, ErrConnectionGone
	}
	if err := st.World.Update(req.Width, req.Height); err != nil {
		return nil, err
	}
	return []Outbound{emit(EvMapDimensionsUpdated, st.World.Size())}, nil
}

func rejected(action, item string, err error) Outbound {
	return emit(EvActionRejected, RejectedPayload{Action: action, Item: item, Reason: rejectReason(err)})
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}

// isQuietRejection 可预期的拒绝只记 debug
func isQuietRejection(err error) bool {
	return errors.Is(err, ErrConnectionGone) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrUnknownCatalogItem)
}
