package quadtree

import (
	"errors"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

var arena = geometry.NewRectangle(0, 0, 1000, 800)

func randomPoints(rng *rand.Rand, n int, r geometry.Rectangle) []geometry.Vector2D {
	pts := make([]geometry.Vector2D, n)
	for i := range pts {
		pts[i] = geometry.Vector2D{
			X: r.X + rng.Float64()*r.Width,
			Y: r.Y + rng.Float64()*r.Height,
		}
	}
	return pts
}

func mustNew(t testing.TB, b geometry.Rectangle, capacity int) *Tree {
	t.Helper()
	tree, err := New(b, capacity)
	if err != nil {
		t.Fatalf("New(%v, %d) returned error: %v", b, capacity, err)
	}
	return tree
}

// bruteForce is the O(n) reference the tree is compared against.
func bruteForce(pts []geometry.Vector2D, r geometry.Rectangle) []int {
	var found []int
	for i, p := range pts {
		if r.Contains(p) {
			found = append(found, i)
		}
	}
	return found
}

func sameHandles(t *testing.T, got, want []int, r geometry.Rectangle) {
	t.Helper()
	g := append([]int(nil), got...)
	sort.Ints(g)
	for i := 1; i < len(g); i++ {
		if g[i] == g[i-1] {
			t.Fatalf("query %v returned handle %d twice", r, g[i])
		}
	}
	if len(g) != len(want) {
		t.Fatalf("query %v returned %d handles; want %d", r, len(g), len(want))
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("query %v returned %v; want %v", r, g, want)
		}
	}
}

func TestNew_RejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		boundary geometry.Rectangle
		capacity int
		wantErr  error
	}{
		{"zero capacity", arena, 0, ErrInvalidCapacity},
		{"negative capacity", arena, -3, ErrInvalidCapacity},
		{"zero width", geometry.NewRectangle(0, 0, 0, 10), 4, ErrEmptyBoundary},
		{"zero height", geometry.NewRectangle(0, 0, 10, 0), 4, ErrEmptyBoundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := New(tt.boundary, tt.capacity)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v; want %v", err, tt.wantErr)
			}
			if tree != nil {
				t.Errorf("New() returned a tree together with an error")
			}
		})
	}
}

func TestInsert_DropsOutsidePoints(t *testing.T) {
	tree := mustNew(t, arena, DefaultCapacity)
	outside := []geometry.Vector2D{{-1, 10}, {10, -0.5}, {1000, 10}, {10, 800}, {2000, 2000}}
	for i, p := range outside {
		if tree.Insert(p, i) {
			t.Errorf("Insert(%v) = true; want the point to be dropped", p)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("Len() = %d; want 0", tree.Len())
	}
	if got := tree.Query(geometry.NewRectangle(-5000, -5000, 10000, 10000)); len(got) != 0 {
		t.Errorf("Query on an empty tree returned %v", got)
	}
}

func TestInsert_SplitThresholdKeepsItemsAtParent(t *testing.T) {
	tree := mustNew(t, geometry.NewRectangle(0, 0, 100, 100), 4)

	// four points, one per quadrant: the root keeps them all
	first := []geometry.Vector2D{{10, 10}, {60, 10}, {10, 60}, {60, 60}}
	for i, p := range first {
		tree.Insert(p, i)
	}
	if s := tree.Stats(); s.Nodes != 1 {
		t.Fatalf("after %d inserts Stats().Nodes = %d; want 1 (no split yet)", len(first), s.Nodes)
	}

	// the fifth one causes exactly one split
	tree.Insert(geometry.Vector2D{X: 20, Y: 20}, 4)
	s := tree.Stats()
	if s.Nodes != 5 || s.Leaves != 4 || s.MaxDepth != 1 {
		t.Fatalf("after capacity+1 inserts Stats() = %+v; want 5 nodes, 4 leaves, depth 1", s)
	}

	root := &tree.nodes[0]
	if len(root.items) != 4 {
		t.Fatalf("root holds %d items after the split; want the 4 it had before", len(root.items))
	}
	for i, it := range root.items {
		if it.handle != i {
			t.Errorf("root item %d has handle %d; items must not be redistributed", i, it.handle)
		}
	}
	topLeft := &tree.nodes[root.firstChild]
	if len(topLeft.items) != 1 || topLeft.items[0].handle != 4 {
		t.Errorf("top-left child items = %+v; want only handle 4", topLeft.items)
	}

	// more points in the same quadrant: the root still holds the original four
	for i := 5; i < 12; i++ {
		tree.Insert(geometry.Vector2D{X: float64(i), Y: float64(i)}, i)
	}
	if len(tree.nodes[0].items) != 4 {
		t.Errorf("root items changed to %d after later inserts", len(tree.nodes[0].items))
	}
	for i := range tree.nodes {
		n := &tree.nodes[i]
		if n.depth < MaxDepth && len(n.items) > tree.Capacity() {
			t.Errorf("node %d holds %d items; capacity is %d", i, len(n.items), tree.Capacity())
		}
	}
	if tree.Len() != 12 {
		t.Errorf("Len() = %d; want 12", tree.Len())
	}
}

func TestQuery_WholeBoundaryReturnsEveryPointOnce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pts := randomPoints(rng, 3000, arena)
	for _, capacity := range []int{1, 4, 16} {
		tree := mustNew(t, arena, capacity)
		for i, p := range pts {
			if !tree.Insert(p, i) {
				t.Fatalf("Insert(%v) dropped a point inside the boundary", p)
			}
		}
		sameHandles(t, tree.Query(arena), bruteForce(pts, arena), arena)
	}
}

func TestQuery_SoundAndComplete(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pts := randomPoints(rng, 2000, arena)
	// points on the quadrant edges of the first levels
	pts = append(pts,
		geometry.Vector2D{X: 500, Y: 400},
		geometry.Vector2D{X: 500, Y: 0},
		geometry.Vector2D{X: 0, Y: 400},
		geometry.Vector2D{X: 250, Y: 200},
		geometry.Vector2D{X: 750, Y: 600},
	)
	tree := mustNew(t, arena, DefaultCapacity)
	for i, p := range pts {
		tree.Insert(p, i)
	}

	ranges := []geometry.Rectangle{
		geometry.NewRectangle(490, 390, 20, 20),
		geometry.NewRectangle(500, 400, 30, 30),
		geometry.NewRectangle(-50, -50, 100, 100),
		geometry.NewRectangle(980, 780, 100, 100),
		geometry.NewRectangle(250, 0, 250, 800),
		geometry.NewRectangle(0, 0, 1000, 800),
		geometry.NewRectangle(-1, -1, 2000, 2000),
	}
	for i := 0; i < 200; i++ {
		c := geometry.Vector2D{X: rng.Float64()*1100 - 50, Y: rng.Float64()*900 - 50}
		ranges = append(ranges, geometry.CenteredSquare(c, 1+rng.Float64()*120))
	}

	var dst []int
	for _, r := range ranges {
		dst = tree.QueryInto(dst[:0], r)
		for _, h := range dst {
			if !r.Contains(pts[h]) {
				t.Fatalf("query %v returned handle %d at %v which lies outside", r, h, pts[h])
			}
		}
		sameHandles(t, dst, bruteForce(pts, r), r)
	}
}

func TestQuery_EmptyRangeFindsNothing(t *testing.T) {
	tree := mustNew(t, arena, DefaultCapacity)
	tree.Insert(geometry.Vector2D{X: 5, Y: 5}, 0)
	if got := tree.Query(geometry.NewRectangle(5, 5, 0, 0)); len(got) != 0 {
		t.Errorf("zero-area query returned %v", got)
	}
}

func TestInsert_IdenticalPositionsStopAtMaxDepth(t *testing.T) {
	tree := mustNew(t, arena, 1)
	p := geometry.Vector2D{X: 333.3, Y: 444.4}
	const n = 500
	for i := 0; i < n; i++ {
		if !tree.Insert(p, i) {
			t.Fatalf("Insert #%d of an inside point was dropped", i)
		}
	}
	s := tree.Stats()
	if s.MaxDepth > MaxDepth {
		t.Errorf("Stats().MaxDepth = %d; must not exceed %d", s.MaxDepth, MaxDepth)
	}
	if got := tree.Query(geometry.CenteredSquare(p, 1)); len(got) != n {
		t.Errorf("query around the pile found %d items; want %d", len(got), n)
	}
}

func TestReset_StartsFromAnEmptyTree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	tree := mustNew(t, arena, DefaultCapacity)
	for i, p := range randomPoints(rng, 500, arena) {
		tree.Insert(p, i)
	}

	smaller := geometry.NewRectangle(0, 0, 100, 100)
	if err := tree.Reset(smaller); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if tree.Len() != 0 || tree.Stats().Nodes != 1 {
		t.Fatalf("after Reset Len() = %d, Stats() = %+v; want an empty single node", tree.Len(), tree.Stats())
	}
	if tree.Boundary() != smaller {
		t.Errorf("Boundary() = %v; want %v", tree.Boundary(), smaller)
	}

	pts := randomPoints(rng, 100, smaller)
	for i, p := range pts {
		tree.Insert(p, i)
	}
	sameHandles(t, tree.Query(arena), bruteForce(pts, arena), arena)

	if err := tree.Reset(geometry.Rectangle{}); !errors.Is(err, ErrEmptyBoundary) {
		t.Errorf("Reset(empty) error = %v; want ErrEmptyBoundary", err)
	}
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	tree := mustNew(t, arena, DefaultCapacity)
	for i, p := range randomPoints(rng, 400, arena) {
		tree.Insert(p, i)
	}
	nodes, items := 0, 0
	tree.Walk(func(b geometry.Rectangle, depth int, n int) {
		nodes++
		items += n
		if b.IsEmpty() {
			t.Errorf("node at depth %d has an empty boundary", depth)
		}
	})
	s := tree.Stats()
	if nodes != s.Nodes || items != s.Items || items != tree.Len() {
		t.Errorf("Walk saw %d nodes / %d items; Stats() = %+v, Len() = %d", nodes, items, s, tree.Len())
	}
}

func BenchmarkTree_Build(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	pts := randomPoints(rng, 10000, arena)
	tree := mustNew(b, arena, DefaultCapacity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Reset(arena)
		for h, p := range pts {
			tree.Insert(p, h)
		}
	}
}

func BenchmarkTree_Query(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	pts := randomPoints(rng, 10000, arena)
	tree := mustNew(b, arena, DefaultCapacity)
	for h, p := range pts {
		tree.Insert(p, h)
	}
	var dst []int

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = tree.QueryInto(dst[:0], geometry.CenteredSquare(pts[i%len(pts)], 30))
	}
}
