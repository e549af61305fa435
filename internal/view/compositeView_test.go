package view

import (
	"testing"
)

type MockView struct {
	lines    int
	rendered *[]string
	name     string
}

func (mv *MockView) Render(int) int {
	if mv.rendered != nil {
		*mv.rendered = append(*mv.rendered, mv.name)
	}
	return mv.lines
}

func TestCompositeView_Render(t *testing.T) {
	view1 := &MockView{lines: 3}
	view2 := &MockView{lines: 5}
	view3 := &MockView{lines: 2}

	compositeView := NewCompositeView([]View{view1, view2, view3})

	totalLines := compositeView.Render(80)
	expectedLines := 10

	if totalLines != expectedLines {
		t.Errorf("expected %d lines, got %d", expectedLines, totalLines)
	}
}

func TestCompositeView_footersRenderLast(t *testing.T) {
	var order []string
	compositeView := NewCompositeView(nil)
	compositeView.AddFooter(&MockView{lines: 1, rendered: &order, name: "footer"})
	compositeView.AddView(&MockView{lines: 2, rendered: &order, name: "body"})

	if lines := compositeView.Render(80); lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
	if len(order) != 2 || order[0] != "body" || order[1] != "footer" {
		t.Errorf("expected body before footer, got %v", order)
	}
}
