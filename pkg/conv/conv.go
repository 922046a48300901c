// Package conv 提供 YAML/JSON 解析结果（map[string]any）的取值与类型转换工具。
package conv

import "fmt"

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从 map[string]any 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt 从 config 取 int。YAML 解析常得到 int，JSON 解析得到 float64，此处统一处理。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if n, ok := ToInt(v); ok {
		return n
	}
	return defaultVal
}

// ConfigGetMaps 取 key 对应的 []map[string]any，常用于嵌套的子组件列表。
func ConfigGetMaps(m map[string]any, key string) ([]map[string]any, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected list, got %T", key, raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, e := range list {
		sub, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected map, got %T", key, i, e)
		}
		out = append(out, sub)
	}
	return out, nil
}

// ConfigGetInt64s 取 key 对应的整数列表（例如物品 ID 列表）。
func ConfigGetInt64s(m map[string]any, key string) ([]int64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected list, got %T", key, raw)
	}
	out := make([]int64, 0, len(list))
	for i, e := range list {
		n, ok := ToInt(e)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected integer, got %T", key, i, e)
		}
		out = append(out, int64(n))
	}
	return out, nil
}
