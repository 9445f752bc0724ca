package flow

import (
	"math/rand"
	"testing"
)

func repeatSize(s Size, n int) []Size {
	sizes := make([]Size, n)
	for i := range sizes {
		sizes[i] = s
	}
	return sizes
}

func rowLengths(rows [][]Size) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = len(r)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPackRows(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []Size
		spacing   float64
		available float64
		want      []int
	}{
		{
			name:      "twenty small items in inset container",
			sizes:     repeatSize(Size{20, 20}, 20),
			spacing:   15,
			available: 331, // 375 - 2*10 content insets - 2*12 section insets
			want:      []int{9, 9, 2},
		},
		{
			name:      "twenty small items with section insets only",
			sizes:     repeatSize(Size{20, 20}, 20),
			spacing:   15,
			available: 351,
			want:      []int{10, 10},
		},
		{
			name:      "exact fit",
			sizes:     repeatSize(Size{100, 10}, 3),
			available: 300,
			want:      []int{3},
		},
		{
			name:      "one over",
			sizes:     repeatSize(Size{100, 10}, 4),
			available: 300,
			want:      []int{3, 1},
		},
		{
			name:      "oversize items get their own rows",
			sizes:     []Size{{400, 10}, {50, 10}, {400, 10}},
			spacing:   10,
			available: 375,
			want:      []int{1, 1, 1},
		},
		{
			name:      "oversize after narrow",
			sizes:     []Size{{50, 10}, {50, 10}, {500, 10}, {50, 10}},
			spacing:   10,
			available: 375,
			want:      []int{2, 1, 1},
		},
		{
			name:      "zero width container",
			sizes:     repeatSize(Size{10, 10}, 3),
			available: 0,
			want:      []int{1, 1, 1},
		},
		{
			name:      "zero size items",
			sizes:     repeatSize(Size{}, 5),
			spacing:   0,
			available: 100,
			want:      []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := PackRows(tt.sizes, tt.spacing, tt.available)
			if got := rowLengths(rows); !equalInts(got, tt.want) {
				t.Errorf("row lengths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPackRows_Empty(t *testing.T) {
	if rows := PackRows(nil, 10, 375); len(rows) != 0 {
		t.Errorf("PackRows(nil) = %v, want no rows", rows)
	}
}

func TestPackRows_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(40)
		sizes := make([]Size, n)
		for i := range sizes {
			sizes[i] = Size{Width: float64(1 + rng.Intn(200)), Height: float64(1 + rng.Intn(80))}
		}
		spacing := float64(rng.Intn(20))
		available := float64(50 + rng.Intn(400))

		rows := PackRows(sizes, spacing, available)
		if len(rows) > n {
			t.Fatalf("iter %d: %d rows for %d items", iter, len(rows), n)
		}

		var seen int
		for ri, row := range rows {
			if len(row) == 0 {
				t.Fatalf("iter %d: row %d is empty", iter, ri)
			}
			var used float64
			for i, s := range row {
				if s != sizes[seen+i] {
					t.Fatalf("iter %d: row %d item %d out of order", iter, ri, i)
				}
				used += s.Width
			}
			used += float64(len(row)-1) * spacing
			if used > available && len(row) != 1 {
				t.Errorf("iter %d: row %d uses %v of %v with %d items", iter, ri, used, available, len(row))
			}
			seen += len(row)
		}
		if seen != n {
			t.Errorf("iter %d: packed %d items, want %d", iter, seen, n)
		}
	}
}
