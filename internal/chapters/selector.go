package chapters

import (
	"strconv"
	"strings"
)

// Filter picks chapters by name or 1-based index, by an inclusive index
// range "a-b", or by a comma list of indices, in that order of precedence.
// With no selection it returns all. Result order follows the input.
func Filter(all []Chapter, chapter string, rng string, list string) []Chapter {
	if chapter != "" {
		byName := FilterByName(all, chapter)
		if len(byName) > 0 {
			return byName
		}
		if idx, err := atoi(chapter); err == nil {
			if idx > 0 && idx <= len(all) {
				return []Chapter{all[idx-1]}
			}
		}
		return []Chapter{}
	}
	if rng != "" {
		return FilterRange(all, rng)
	}
	if list != "" {
		return FilterList(all, list)
	}
	return all
}

func FilterByName(all []Chapter, name string) []Chapter {
	var out []Chapter
	for _, ch := range all {
		if ch.Name == name {
			out = append(out, ch)
		}
	}
	return out
}

func FilterRange(all []Chapter, rng string) []Chapter {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil
	}
	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || start > end || start > len(all) {
		return nil
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start-1 : end]
}

// FilterList keeps the listed indices, skipping repeats and out-of-range
// entries, in the order the chapters appear.
func FilterList(all []Chapter, list string) []Chapter {
	want := map[int]bool{}
	for n := range strings.SplitSeq(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		idx, err := atoi(n)
		if err != nil {
			continue
		}
		want[idx] = true
	}

	out := []Chapter{}
	for i, ch := range all {
		if want[i+1] {
			out = append(out, ch)
		}
	}
	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
