package server

import "encoding/json"

// Audience 广播受众
type Audience int

const (
	// SenderOnly 仅发起连接
	SenderOnly Audience = iota
	// OthersOnly 除发起连接外的所有连接
	OthersOnly
	// All 所有连接（含发起者）
	All
)

func (a Audience) String() string {
	switch a {
	case SenderOnly:
		return "senderOnly"
	case OthersOnly:
		return "othersOnly"
	case All:
		return "all"
	}
	return "unknown"
}

// 服务端 → 客户端事件
const (
	EvGameState            = "gameState"
	EvPlayerJoined         = "playerJoined"
	EvPlayerMoved          = "playerMoved"
	EvPlayerLeft           = "playerLeft"
	EvNewMessage           = "newMessage"
	EvUsernameChanged      = "usernameChanged"
	EvSkinChanged          = "skinChanged"
	EvThemeChanged         = "themeChanged"
	EvCoinsUpdated         = "coinsUpdated"
	EvMapDimensionsUpdated = "mapDimensionsUpdated"
	EvPositionCorrected    = "positionCorrected"
	EvActionRejected       = "actionRejected"
)

// 客户端 → 服务端命令
const (
	CmdChatMessage         = "chatMessage"
	CmdSetUsername         = "setUsername"
	CmdPlayerMove          = "playerMove"
	CmdPurchaseSkin        = "purchaseSkin"
	CmdSelectSkin          = "selectSkin"
	CmdPurchaseTheme       = "purchaseTheme"
	CmdSelectTheme         = "selectTheme"
	CmdUpdateMapDimensions = "updateMapDimensions"
)

// routing 事件 → 受众；余额与主题属于私有信息，只回给本人
var routing = map[string]Audience{
	EvGameState:            SenderOnly,
	EvPlayerJoined:         OthersOnly,
	EvPlayerMoved:          OthersOnly,
	EvPlayerLeft:           All,
	EvNewMessage:           All,
	EvUsernameChanged:      All,
	EvSkinChanged:          All,
	EvThemeChanged:         SenderOnly,
	EvCoinsUpdated:         SenderOnly,
	EvMapDimensionsUpdated: All,
	EvPositionCorrected:    SenderOnly,
	EvActionRejected:       SenderOnly,
}

// Outbound 处理器产出的一条待分发事件
type Outbound struct {
	Audience Audience
	Event    string
	Payload  any
}

// emit 按路由表确定受众
func emit(event string, payload any) Outbound {
	return Outbound{Audience: routing[event], Event: event, Payload: payload}
}

// Envelope 线上帧格式：{"type":"playerMove","data":{...}}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Encode 编码为文本帧
func (o Outbound) Encode() ([]byte, error) {
	return json.Marshal(outEnvelope{Type: o.Event, Data: o.Payload})
}

// ---- 出站载荷 ----

type MovedPayload struct {
	ID        PlayerID  `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
}

// ChatMessage 仅在广播途中存在，不在服务端保留
type ChatMessage struct {
	ID        PlayerID `json:"id"`
	Sender    string   `json:"sender"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
}

type UsernameChangedPayload struct {
	ID          PlayerID `json:"id"`
	OldUsername string   `json:"oldUsername"`
	NewUsername string   `json:"newUsername"`
}

type SkinChangedPayload struct {
	ID       PlayerID `json:"id"`
	Skin     string   `json:"skin"`
	Username string   `json:"username"`
}

type ThemeChangedPayload struct {
	ID    PlayerID `json:"id"`
	Theme string   `json:"theme"`
}

type CoinsPayload struct {
	Coins int `json:"coins"`
}

type RejectedPayload struct {
	Action string `json:"action"`
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// ---- 入站载荷 ----

type MoveRequest struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction,omitempty"`
}

type PurchaseSkinRequest struct {
	SkinName string `json:"skinName"`
	Price    *int   `json:"price,omitempty"`
}

type SelectSkinRequest struct {
	SkinName string `json:"skinName"`
}

type PurchaseThemeRequest struct {
	ThemeID string `json:"themeId"`
	Price   *int   `json:"price,omitempty"`
}

type SelectThemeRequest struct {
	ThemeID string `json:"themeId"`
}
