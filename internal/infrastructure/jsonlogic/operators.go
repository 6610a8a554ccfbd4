package jsonlogic

import (
	"fmt"
	"math"
	"reflect"
)

func Sum(args ...any) any {
	s := 0.0
	for _, a := range args {
		rv := reflect.ValueOf(a)
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				s += toFloat64(rv.Index(i).Interface())
			}
			continue
		}
		s += toFloat64(a)
	}
	return s
}

func Round(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	p := 0
	if len(args) > 1 {
		p = int(toFloat64(args[1]))
	}
	f := math.Pow(10, float64(p))
	return math.Round(toFloat64(args[0])*f) / f
}

// AnyOf reports whether the first list shares an element with the second.
// Objects carrying an "id" key compare by id, so collection lists can be
// matched against plain gids.
func AnyOf(args ...any) any {
	if len(args) < 2 {
		return false
	}
	have := toKeys(args[0])
	for _, want := range toKeys(args[1]) {
		for _, h := range have {
			if h == want {
				return true
			}
		}
	}
	return false
}

func toKeys(v any) []string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() != reflect.Slice {
		return []string{key(v)}
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, key(rv.Index(i).Interface()))
	}
	return out
}

func key(v any) string {
	if m, ok := v.(map[string]any); ok {
		if id, ok := m["id"]; ok {
			return fmt.Sprint(id)
		}
	}
	return fmt.Sprint(v)
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case uint32:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
