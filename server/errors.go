package server

import "errors"

// 命令处理中的可预期错误：一律静默拒绝（可选地回执给发送方），从不断开连接
var (
	ErrUnknownCatalogItem = errors.New("unknown catalog item")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNotOwned           = errors.New("item not owned")
	ErrConnectionGone     = errors.New("connection gone")
	ErrInvalidDimensions  = errors.New("map dimensions must be positive")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrUnknownEvent       = errors.New("unknown event")
)

// rejectReason 将经济类错误映射为回执中的 reason 字段
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCatalogItem):
		return "unknownItem"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficientFunds"
	case errors.Is(err, ErrNotOwned):
		return "notOwned"
	}
	return "rejected"
}
