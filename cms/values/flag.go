package values

import (
	"strconv"

	"presskit/errors"
	"presskit/validation"
)

// IntFlag 非负整数标记（侧边栏开关、菜单可见性等）
type IntFlag int

// NewIntFlag 构造非负整数标记
func NewIntFlag(v int) (IntFlag, error) {
	if err := validation.ValidateNonNegative(v, "flag"); err != nil {
		return 0, err
	}
	return IntFlag(v), nil
}

// ParseIntFlag 从事件负载恢复整数标记
func ParseIntFlag(v int) (IntFlag, error) {
	if v < 0 {
		return 0, errors.NewError(errors.ErrCodeSerialization,
			"invalid flag payload: "+strconv.Itoa(v))
	}
	return IntFlag(v), nil
}

// Int 原生整数值
func (f IntFlag) Int() int { return int(f) }

func (f IntFlag) String() string { return strconv.Itoa(int(f)) }
