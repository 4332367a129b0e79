package core

// BalancedEnd scans s starting at openIdx (which must hold the open byte)
// and returns the index just past the matching close byte, honouring
// nested open/close pairs and skipping the contents of quoted regions
// (both are conventions shared by the directive tokenizer's bracket
// groups and the scalar expression tokenizer's "${...}" and "(...)"
// spans — spec.md §4.3 and §4.4.2). Backslash escapes are respected both
// inside and outside quotes so an escaped quote or bracket never throws
// off the nesting count. When open and close are the same byte (a quoted
// span), the span ends at the next unescaped occurrence of that byte.
//
// If the input ends before the group closes, BalancedEnd returns
// len(s), false.
func BalancedEnd(s string, openIdx int, open, close byte) (end int, closed bool) {
	n := len(s)
	if open == close {
		for j := openIdx + 1; j < n; j++ {
			if s[j] == '\\' && j+1 < n {
				j++
				continue
			}
			if s[j] == close {
				return j + 1, true
			}
		}
		return n, false
	}
	depth := 0
	j := openIdx
	for j < n {
		c := s[j]
		if c == '\\' && j+1 < n {
			j += 2
			continue
		}
		if c == '"' || c == '\'' {
			q := c
			j++
			for j < n {
				if s[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if s[j] == q {
					j++
					break
				}
				j++
			}
			continue
		}
		if c == open {
			depth++
			j++
			continue
		}
		if c == close {
			depth--
			j++
			if depth == 0 {
				return j, true
			}
			continue
		}
		j++
	}
	return n, false
}
