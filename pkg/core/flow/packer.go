package flow

// PackRows greedily splits sizes into rows that fit availableWidth.
//
// Each row takes items from the front of the remaining sequence while the
// sum of their widths plus the spacings between them stays within
// availableWidth. An item that alone is wider than availableWidth still gets
// a row of its own. At most len(sizes) rows are produced; an empty input
// yields no rows.
//
// The returned rows share backing storage with sizes and must not be
// modified.
func PackRows(sizes []Size, interitemSpacing, availableWidth float64) [][]Size {
	var rows [][]Size
	remaining := sizes
	for range sizes {
		row, rest := packRow(remaining, interitemSpacing, availableWidth)
		rows = append(rows, row)
		if len(rest) == 0 {
			break
		}
		remaining = rest
	}
	return rows
}

// packRow returns the longest prefix of sizes that fits on one row, and the
// rest.
func packRow(sizes []Size, interitemSpacing, availableWidth float64) (row, rest []Size) {
	var (
		n     int
		total float64
	)
	for _, s := range sizes {
		// n spacings once s is appended after n items.
		if s.Width+total+float64(n)*interitemSpacing > availableWidth && n > 0 {
			break
		}
		total += s.Width
		n++
	}
	return sizes[:n:n], sizes[n:]
}
