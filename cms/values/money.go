package values

import (
	"presskit/errors"
	"presskit/validation"
)

// Money 金额值对象
//
// 金额保存为十进制字符串，避免浮点误差；货币为 ISO 4217 代码。
type Money struct {
	amount   string
	currency string
}

// NewMoney 构造金额值，校验金额格式与货币代码
func NewMoney(amount, currency string) (Money, error) {
	if err := validation.ValidateDecimalAmount(amount); err != nil {
		return Money{}, err
	}
	if err := validation.ValidateCurrencyCode(currency); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney 从事件负载恢复金额值
//
// 负载损坏时返回 SERIALIZATION_ERROR 而非校验错误。
func ParseMoney(amount, currency string) (Money, error) {
	m, err := NewMoney(amount, currency)
	if err != nil {
		return Money{}, errors.NewErrorWithCause(errors.ErrCodeSerialization,
			"invalid money payload: "+amount+" "+currency, err)
	}
	return m, nil
}

// Amount 十进制金额字符串
func (m Money) Amount() string { return m.amount }

// Currency ISO 4217 货币代码
func (m Money) Currency() string { return m.currency }

// Equal 按值比较相等性
func (m Money) Equal(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// IsZero 是否为零值（未设置）
func (m Money) IsZero() bool { return m.amount == "" && m.currency == "" }

func (m Money) String() string {
	if m.IsZero() {
		return ""
	}
	return m.amount + " " + m.currency
}
