package news

import (
	"fmt"
	"strings"
)

const MethodDiversity = "salience+diversity"

type CompressConfig struct {
	Target int
	Method string
	Axes   []string
}

// Compress reduces entries to at most cfg.Target. The diversity method is
// used for MethodDiversity; any other method keeps the top scores.
func Compress(entries []Entry, cfg CompressConfig) []Entry {
	if cfg.Method == MethodDiversity {
		return CompressDiverse(entries, cfg.Target, cfg.Axes)
	}
	return TopN(entries, cfg.Target)
}

func axisKey(e Entry, axes []string) string {
	vals := make([]string, len(axes))
	for i, ax := range axes {
		v, _ := e.Field(ax)
		vals[i] = strings.ToLower(axisString(v))
	}
	return strings.Join(vals, "\x1f")
}

func axisString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	default:
		return fmt.Sprint(x)
	}
}

// CompressDiverse greedily picks by score, admitting an entry when its axis
// combination is new or while fewer than half the target is chosen, then
// tops up with the best remaining entries.
func CompressDiverse(entries []Entry, target int, axes []string) []Entry {
	if target < 0 {
		target = 0
	}
	if len(entries) <= target {
		return entries
	}
	sorted := sortByScore(entries)
	chosen := make([]Entry, 0, target)
	picked := make([]bool, len(sorted))
	seen := map[string]int{}
	for i, it := range sorted {
		if len(chosen) >= target {
			break
		}
		k := axisKey(it, axes)
		if seen[k] == 0 || len(chosen) < target/2 {
			chosen = append(chosen, it)
			picked[i] = true
			seen[k]++
		}
	}
	for i, it := range sorted {
		if len(chosen) >= target {
			break
		}
		if !picked[i] {
			chosen = append(chosen, it)
		}
	}
	return chosen
}
