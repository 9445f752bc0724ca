package flow_test

import (
	"fmt"

	"github.com/matzehuels/flowbridge/pkg/core/flow"
)

type grid struct{ items int }

func (g grid) NumberOfItems(section int) (int, bool) { return g.items, section == 0 }
func (grid) UsesFlowLayout(int) bool                 { return true }
func (grid) CustomSection(*flow.Bridge, int, flow.Environment) (*flow.Section, bool) {
	return nil, false
}

func ExamplePackRows() {
	sizes := []flow.Size{{Width: 100, Height: 40}, {Width: 100, Height: 60}, {Width: 100, Height: 40}, {Width: 100, Height: 40}}

	for i, row := range flow.PackRows(sizes, 10, 320) {
		fmt.Printf("row %d: %d items\n", i, len(row))
	}
	// Output:
	// row 0: 3 items
	// row 1: 1 items
}

func ExampleBridge_Section() {
	defaults := flow.LegacyDefaults()
	defaults.ItemSize = flow.Size{Width: 100, Height: 100}
	defaults.HeaderSize = flow.Size{Width: 1, Height: 44}

	b := flow.New(flow.Config{DataSource: grid{items: 5}, Delegate: grid{}, Defaults: defaults})
	env := flow.Environment{ContentSize: flow.Size{Width: 375, Height: 667}}

	s, ok := b.Section(0, env)
	if !ok {
		fmt.Println("no section")
		return
	}
	fmt.Println("mode:", s.Mode)
	fmt.Println("height:", s.Group.Size.Height)
	for i, row := range s.Group.Rows() {
		first := row.Items[0].EdgeSpacing
		fmt.Printf("row %d: %d items, leading %g, trailing %g\n", i, len(row.Items), first.Leading.Value, first.Trailing.Value)
	}
	h, _ := s.Header()
	fmt.Println("header:", h.Size.Width, h.Size.Height)
	// Output:
	// mode: fixed
	// height: absolute(210)
	// row 0: 3 items, leading 0, trailing 27.5
	// row 1: 2 items, leading 0, trailing 0
	// header: absolute(375) absolute(44)
}

func ExampleHorizontalEdgeSpacing() {
	h := flow.HorizontalEdgeSpacing{
		GroupWidth:            375,
		ItemWidth:             50,
		RemainingWidthPerItem: 325,
		InFirstGroup:          false,
		InLastGroup:           true,
		GroupHasOneItem:       true,
		AllGroupsHaveOneItem:  true,
	}
	fmt.Println(h.Leading().Value)
	// Output: 162.5
}
