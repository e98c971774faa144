package tree

import "testing"

func TestCapacity(t *testing.T) {
	want := []uint{1, 3, 7, 15, 31, 63, 127}
	for d, c := range want {
		if got := Capacity(uint(d)); got != c {
			t.Fatalf("Capacity(%d) = %d, want %d", d, got, c)
		}
	}
}

func TestDepth(t *testing.T) {
	cases := []struct {
		index uint
		depth uint
	}{
		{0, 0},
		{1, 1}, {2, 1},
		{3, 2}, {6, 2},
		{7, 3}, {14, 3},
		{15, 4},
	}
	for _, c := range cases {
		if got := Depth(c.index); got != c.depth {
			t.Fatalf("Depth(%d) = %d, want %d", c.index, got, c.depth)
		}
	}
	// Every index between Begin(d) and End(d) sits at depth d.
	for d := uint(0); d < 10; d++ {
		for i := Begin(d); i < End(d); i++ {
			if got := Depth(i); got != d {
				t.Fatalf("Depth(%d) = %d, want %d", i, got, d)
			}
		}
	}
}

func TestBeginEnd(t *testing.T) {
	if Begin(0) != 0 {
		t.Fatalf("Begin(0) = %d, want 0", Begin(0))
	}
	for d := uint(1); d < 12; d++ {
		if Begin(d) != End(d-1) {
			t.Fatalf("Begin(%d) = %d, End(%d) = %d; levels must abut", d, Begin(d), d-1, End(d-1))
		}
		if Begin(d) != Capacity(d-1) {
			t.Fatalf("Begin(%d) = %d, want Capacity(%d) = %d", d, Begin(d), d-1, Capacity(d-1))
		}
	}
}

func TestParentChildren(t *testing.T) {
	for i := uint(1); i < Capacity(9); i++ {
		left, right := Children(Parent(i))
		if i != left && i != right {
			t.Fatalf("Children(Parent(%d)) = (%d, %d), does not contain %d", i, left, right, i)
		}
	}
	for i := uint(0); i < Capacity(8); i++ {
		left, right := Children(i)
		if right != left+1 {
			t.Fatalf("Children(%d) = (%d, %d), want adjacent pair", i, left, right)
		}
		if Parent(left) != i || Parent(right) != i {
			t.Fatalf("Parent of children of %d = (%d, %d)", i, Parent(left), Parent(right))
		}
		if Depth(left) != Depth(i)+1 {
			t.Fatalf("child %d of %d at depth %d, want %d", left, i, Depth(left), Depth(i)+1)
		}
	}
}
