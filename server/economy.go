package server

import "fmt"

// PurchaseResult 非错误的购买结果
type PurchaseResult int

const (
	PurchaseSucceeded PurchaseResult = iota
	// PurchaseAlreadyOwned 幂等：已拥有则不扣费，视为成功
	PurchaseAlreadyOwned
)

func (r PurchaseResult) String() string {
	if r == PurchaseAlreadyOwned {
		return "alreadyOwned"
	}
	return "success"
}

// Ledger 金币账本：校验并执行购买、选择
// 调用方保证同一时刻只有事件循环在修改玩家（run-to-completion），因此扣费与入库天然原子
type Ledger struct {
	catalog *Catalog
}

// NewLedger 基于只读价目表创建账本
func NewLedger(c *Catalog) *Ledger {
	return &Ledger{catalog: c}
}

// Purchase 购买：未知物品、余额不足时不做任何修改
func (l *Ledger) Purchase(p *Player, kind CatalogKind, item string) (PurchaseResult, error) {
	if p == nil {
		return 0, ErrConnectionGone
	}
	it, ok := l.catalog.Lookup(kind, item)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownCatalogItem, kind, item)
	}
	if p.Owns(kind, item) || it.Price == 0 {
		return PurchaseAlreadyOwned, nil
	}
	if p.Coins < it.Price {
		return 0, fmt.Errorf("%w: %s %q costs %d, balance %d", ErrInsufficientFunds, kind, item, it.Price, p.Coins)
	}

	p.Coins -= it.Price
	switch kind {
	case KindSkin:
		p.OwnedSkins[item] = struct{}{}
	case KindTheme:
		p.OwnedThemes[item] = struct{}{}
	}
	return PurchaseSucceeded, nil
}

// Select 切换当前皮肤/主题：未拥有直接拒绝，不做静默纠正
// 主题的免费默认项始终可选
func (l *Ledger) Select(p *Player, kind CatalogKind, item string) error {
	if p == nil {
		return ErrConnectionGone
	}
	if _, ok := l.catalog.Lookup(kind, item); !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownCatalogItem, kind, item)
	}
	switch kind {
	case KindSkin:
		if !p.Owns(kind, item) {
			return fmt.Errorf("%w: skin %q", ErrNotOwned, item)
		}
		p.Skin = item
	case KindTheme:
		if !p.Owns(kind, item) && item != l.catalog.DefaultTheme {
			return fmt.Errorf("%w: theme %q", ErrNotOwned, item)
		}
		p.Theme = item
	}
	return nil
}
