package values

import (
	"time"

	"presskit/errors"
)

// DateTimeLayout 事件负载与投影列使用的时间戳格式
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime 秒级精度的时间值对象
//
// 相等性按秒比较：同一秒内的两个时间视为相等，
// 与序列化后的字符串表示一致。
type DateTime struct {
	t time.Time
}

// NewDateTime 构造秒级精度的时间值
func NewDateTime(t time.Time) DateTime {
	return DateTime{t: t.Truncate(time.Second)}
}

// Now 当前时间（秒级精度）
func Now() DateTime {
	return NewDateTime(time.Now())
}

// ParseDateTime 从序列化形式解析时间值
//
// 负载损坏或格式不匹配时返回 SERIALIZATION_ERROR。
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, errors.NewErrorWithCause(errors.ErrCodeSerialization,
			"invalid datetime payload: "+s, err)
	}
	return DateTime{t: t}, nil
}

// Time 底层 time.Time
func (d DateTime) Time() time.Time { return d.t }

// String 序列化形式
func (d DateTime) String() string { return d.t.Format(DateTimeLayout) }

// GMT 转换到 UTC 的副本
func (d DateTime) GMT() DateTime { return DateTime{t: d.t.UTC()} }

// Equal 按秒比较相等性
//
// 比较序列化形式而非时间点：负载经解析后会丢失时区信息，
// 按墙钟字符串比较能让实时路径与重放路径得到一致结果。
func (d DateTime) Equal(other DateTime) bool {
	return d.t.Format(DateTimeLayout) == other.t.Format(DateTimeLayout)
}

// IsZero 是否为零值
func (d DateTime) IsZero() bool { return d.t.IsZero() }
