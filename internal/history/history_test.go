package history

import "testing"

func TestCapped_AppendBelowLimit(t *testing.T) {
	c := New[int](5)

	for i := 1; i <= 3; i++ {
		c.Append(i)
	}

	if c.Len() != 3 {
		t.Fatalf("Expected length 3, got %d", c.Len())
	}

	items := c.Items()
	for i, v := range []int{1, 2, 3} {
		if items[i] != v {
			t.Errorf("Expected item %d at index %d, got %d", v, i, items[i])
		}
	}
}

func TestCapped_EvictsOldest(t *testing.T) {
	c := New[int](100)

	for i := 1; i <= 101; i++ {
		c.Append(i)
	}

	if c.Len() != 100 {
		t.Fatalf("Expected length 100 after 101 appends, got %d", c.Len())
	}

	items := c.Items()
	if items[0] != 2 {
		t.Errorf("Expected oldest entry to be 2 (first evicted), got %d", items[0])
	}
	if items[len(items)-1] != 101 {
		t.Errorf("Expected newest entry to be 101, got %d", items[len(items)-1])
	}
}

func TestCapped_ItemsReturnsCopy(t *testing.T) {
	c := New[int](3)
	c.Append(1)

	items := c.Items()
	items[0] = 42

	if c.Items()[0] != 1 {
		t.Error("Mutating the returned slice should not affect the collection")
	}
}
