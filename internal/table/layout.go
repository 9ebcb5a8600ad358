package table

import (
	"sort"
)

// Allocate computes the rendered width of every column.
//
// natural[i] is the widest formatted cell (header included) of cols[i].
// sepWidth is the display width of the separator placed between columns.
// When the natural widths fit within width nothing shrinks. Otherwise keep
// columns retain their natural width and the remaining budget is split
// between truncate and wrap columns in proportion to their natural widths.
// The result may exceed width when keep columns alone do not fit.
func Allocate(width, sepWidth int, cols []Column, natural []int) []int {
	widths := make([]int, len(cols))
	copy(widths, natural)
	if len(cols) == 0 {
		return widths
	}

	total := sepWidth * (len(cols) - 1)
	for _, n := range natural {
		total += n
	}
	if total <= width {
		return widths
	}

	budget := width - sepWidth*(len(cols)-1)
	var flexible []int
	flexTotal := 0
	for i, c := range cols {
		if c.Overflow == OverflowKeep {
			budget -= natural[i]
			continue
		}
		flexible = append(flexible, i)
		flexTotal += natural[i]
	}
	if len(flexible) == 0 || flexTotal == 0 {
		return widths
	}
	if budget < 0 {
		budget = 0
	}

	type share struct {
		col  int
		rem  int
		size int
	}
	shares := make([]share, 0, len(flexible))
	used := 0
	for _, i := range flexible {
		num := budget * natural[i]
		s := share{col: i, size: num / flexTotal, rem: num % flexTotal}
		used += s.size
		shares = append(shares, s)
	}

	// Hand out the flooring remainder by largest fractional part, then column order.
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shares[order[a]].rem > shares[order[b]].rem
	})
	for _, idx := range order {
		if used >= budget {
			break
		}
		if shares[idx].rem == 0 {
			continue
		}
		shares[idx].size++
		used++
	}

	for _, s := range shares {
		w := s.size
		if w > natural[s.col] {
			w = natural[s.col]
		}
		if w < 1 && natural[s.col] > 0 {
			w = 1
		}
		widths[s.col] = w
	}
	return widths
}
