package server

import "encoding/json"

type inputKind int

const (
	inputJoin inputKind = iota
	inputLeave
	inputCommand
	inputQuery
)

// Input 投递给事件循环的一条输入；循环逐条处理到底（run-to-completion）
type Input struct {
	Kind     inputKind
	PlayerID PlayerID

	// 客户端命令：{"type":"playerMove","data":{"x":10,"y":20}}
	Type string
	Data json.RawMessage

	conn   *ClientConn     // inputJoin
	joined chan PlayerID   // inputJoin 的回执
	query  func(st *State) // inputQuery：在循环线程内只读访问状态
	done   chan struct{}   // inputQuery 的回执
}
