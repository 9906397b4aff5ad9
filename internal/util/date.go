package util

import "time"

// ParseDate 按服务器本地时区解析 YYYY-MM-DD 日期。
// 数据库连接使用 loc=Local，请求边界必须用同一时区解析，
// 否则 UTC 以东的部署上会出现跨一天的日期比较偏差。
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
