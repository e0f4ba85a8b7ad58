package ui

import "testing"

func TestHit(t *testing.T) {
	tests := []struct {
		name   string
		mx, my int
		want   bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right corner", 30, 20, true},
		{"left of", 9, 15, false},
		{"below", 15, 21, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hit(10, 10, 20, 10, tt.mx, tt.my); got != tt.want {
				t.Errorf("hit(%d, %d) = %v; want %v", tt.mx, tt.my, got, tt.want)
			}
		})
	}
}

func TestPanel_StacksWidgets(t *testing.T) {
	p := NewPanel("Flocking", 10, 10, 200)
	p.AddSection("Weights")
	first := p.AddStepper("Separation", 0.5, nil)
	second := p.AddStepper("Cohesion", 0.1, nil)
	p.AddSection("Display")
	box := p.AddCheckbox("Show quadtree", false, nil)

	if first.Y != 10+panelTitleHeight+panelSectionHeight {
		t.Errorf("first stepper at y=%v", first.Y)
	}
	if second.Y != first.Y+first.height() {
		t.Errorf("second stepper at y=%v; want right under the first at %v", second.Y, first.Y+first.height())
	}
	if box.Y != second.Y+second.height()+panelSectionHeight {
		t.Errorf("checkbox at y=%v", box.Y)
	}
	if bottom := p.Y + p.Height; bottom < box.Y+box.Size {
		t.Errorf("panel ends at %v, above its last widget at %v", bottom, box.Y+box.Size)
	}
	if !p.Contains(20, int(box.Y)) || p.Contains(500, 20) {
		t.Error("Contains does not match the panel area")
	}
	p.Hidden = true
	if p.Contains(20, 20) {
		t.Error("a hidden panel still captures the cursor")
	}
}

func TestStepper_ClickEmitsDeltas(t *testing.T) {
	var got []int
	p := NewPanel("Flocking", 0, 0, 200)
	s := p.AddStepper("Alignment", 0.02, func(d int) { got = append(got, d) })

	click := func(b *Button) bool {
		return s.Click(int(b.X+b.Width/2), int(b.Y+b.Height/2))
	}
	if !click(s.plus) || !click(s.plus) || !click(s.minus) {
		t.Fatal("a click on a stepper button was not handled")
	}
	if s.Click(int(s.X), int(s.Y)) {
		t.Error("a click on the label was handled as a step")
	}
	want := []int{+1, +1, -1}
	if len(got) != len(want) {
		t.Fatalf("OnStep calls = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OnStep calls = %v; want %v", got, want)
		}
	}
}

func TestCheckbox_Toggle(t *testing.T) {
	var changes []bool
	c := NewCheckbox(0, 0, "Show quadtree", false)
	c.OnChange = func(v bool) { changes = append(changes, v) }

	if !c.Toggle(5, 5) || !c.Value {
		t.Fatalf("Toggle inside the box left Value = %v", c.Value)
	}
	if c.Toggle(100, 5) {
		t.Error("Toggle outside the box was handled")
	}
	c.Toggle(1, 1)
	if c.Value || len(changes) != 2 || changes[0] != true || changes[1] != false {
		t.Errorf("Value = %v, changes = %v", c.Value, changes)
	}
}
