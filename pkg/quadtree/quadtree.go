// Package quadtree implements the region quadtree used to find the boids close
// to a given point without scanning the whole flock.
//
// The tree is meant to be rebuilt from scratch every frame: there is no Remove
// or Move, Reset turns an existing tree into an empty one while keeping the
// memory it already allocated. Nodes live in a single slice and refer to
// their children by index, so a Tree holds no pointers into the caller's data,
// only the integer handles it was given.
package quadtree

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

const (
	// DefaultCapacity is the number of items a node stores before it splits.
	// Smaller values give a deeper tree with cheaper leaf scans.
	DefaultCapacity = 4
	// MaxDepth stops the subdivision. A node at this depth keeps every item it
	// receives, otherwise a pile of identical positions would halve the node
	// size until it underflows.
	MaxDepth = 24
)

var (
	ErrInvalidCapacity = errors.New("quadtree capacity must be at least 1")
	ErrEmptyBoundary   = errors.New("quadtree boundary must have a positive area")
)

type item struct {
	pos    geometry.Vector2D
	handle int
}

// node covers the half-open region [x0, x1) x [y0, y1).
// Edges are stored instead of x,y,width,height so the four children share
// their edges bit for bit with each other and with the parent.
type node struct {
	x0, y0, x1, y1 float64
	items          []item
	firstChild     int32 // children are firstChild..firstChild+3 (TL, TR, BL, BR), -1 on a leaf
	depth          int
}

func (n *node) contains(p geometry.Vector2D) bool {
	return n.x0 <= p.X && p.X < n.x1 && n.y0 <= p.Y && p.Y < n.y1
}

func (n *node) intersects(r geometry.Rectangle) bool {
	return !(r.X > n.x1 || r.Right() < n.x0 || r.Y > n.y1 || r.Bottom() < n.y0)
}

func (n *node) insideOf(r geometry.Rectangle) bool {
	return r.X <= n.x0 && r.Y <= n.y0 && n.x1 <= r.Right() && n.y1 <= r.Bottom()
}

func (n *node) rectangle() geometry.Rectangle {
	return geometry.Rectangle{X: n.x0, Y: n.y0, Width: n.x1 - n.x0, Height: n.y1 - n.y0}
}

// Tree is a region quadtree storing integer handles at 2D positions.
// A Tree is not safe for concurrent Insert, but any number of goroutines may
// Query it once it is fully built.
type Tree struct {
	capacity int
	nodes    []node
	count    int
}

// Stats describes the shape of a tree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	Items    int
}

// New creates an empty tree covering boundary.
func New(boundary geometry.Rectangle, capacity int) (*Tree, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	t := &Tree{capacity: capacity}
	if err := t.Reset(boundary); err != nil {
		return nil, err
	}
	return t, nil
}

// Reset empties the tree and makes it cover boundary. Node and item storage
// from the previous build is reused.
func (t *Tree) Reset(boundary geometry.Rectangle) error {
	if boundary.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrEmptyBoundary, boundary)
	}
	t.nodes = t.nodes[:0]
	t.count = 0
	t.addNode(boundary.X, boundary.Y, boundary.Right(), boundary.Bottom(), 0)
	return nil
}

// Boundary returns the region covered by the root node.
func (t *Tree) Boundary() geometry.Rectangle {
	return t.nodes[0].rectangle()
}

// Capacity returns the split threshold of the nodes.
func (t *Tree) Capacity() int { return t.capacity }

// Len returns the number of items stored in the tree.
func (t *Tree) Len() int { return t.count }

func (t *Tree) addNode(x0, y0, x1, y1 float64, depth int) int32 {
	idx := len(t.nodes)
	if idx < cap(t.nodes) {
		t.nodes = t.nodes[:idx+1]
		n := &t.nodes[idx]
		n.x0, n.y0, n.x1, n.y1 = x0, y0, x1, y1
		n.items = n.items[:0]
		n.firstChild = -1
		n.depth = depth
	} else {
		t.nodes = append(t.nodes, node{
			x0: x0, y0: y0, x1: x1, y1: y1,
			items:      make([]item, 0, t.capacity),
			firstChild: -1,
			depth:      depth,
		})
	}
	return int32(idx)
}

// split gives node i its four children. It must not hold a *node across the
// call: appending children may move the node slice.
func (t *Tree) split(i int32) {
	n := t.nodes[i]
	mx := n.x0 + (n.x1-n.x0)/2
	my := n.y0 + (n.y1-n.y0)/2
	d := n.depth + 1
	first := t.addNode(n.x0, n.y0, mx, my, d) // top-left
	t.addNode(mx, n.y0, n.x1, my, d)          // top-right
	t.addNode(n.x0, my, mx, n.y1, d)          // bottom-left
	t.addNode(mx, my, n.x1, n.y1, d)          // bottom-right
	t.nodes[i].firstChild = first
}

// childFor returns the index of the child of n containing p, p being inside n.
func childFor(n *node, p geometry.Vector2D) int32 {
	c := n.firstChild
	if p.X >= n.x0+(n.x1-n.x0)/2 {
		c++
	}
	if p.Y >= n.y0+(n.y1-n.y0)/2 {
		c += 2
	}
	return c
}

// Insert stores handle at pos. A position outside the root boundary is
// dropped and Insert returns false.
//
// Items are never redistributed: a node keeps the items it stored before it
// split, and only the items arriving afterwards go down to the children.
// Most quadtrees push the old items down at split time; this one does not, and
// Query does not care since it scans every visited node.
func (t *Tree) Insert(pos geometry.Vector2D, handle int) bool {
	if !t.nodes[0].contains(pos) {
		return false
	}
	i := int32(0)
	for {
		n := &t.nodes[i]
		if n.firstChild < 0 {
			if len(n.items) < t.capacity || n.depth >= MaxDepth {
				n.items = append(n.items, item{pos: pos, handle: handle})
				t.count++
				return true
			}
			t.split(i)
			n = &t.nodes[i]
		}
		i = childFor(n, pos)
	}
}

// Query returns the handles of every item whose position lies in r.
// The order of the result is unspecified.
func (t *Tree) Query(r geometry.Rectangle) []int {
	return t.QueryInto(nil, r)
}

// QueryInto appends the handles of every item whose position lies in r to dst
// and returns the extended slice. Reuse dst across calls to avoid allocations.
func (t *Tree) QueryInto(dst []int, r geometry.Rectangle) []int {
	if r.IsEmpty() || len(t.nodes) == 0 {
		return dst
	}
	return t.query(0, r, dst)
}

func (t *Tree) query(i int32, r geometry.Rectangle, dst []int) []int {
	n := &t.nodes[i]
	if !n.intersects(r) {
		return dst
	}
	if n.insideOf(r) {
		return t.collect(i, dst)
	}
	for _, it := range n.items {
		if r.Contains(it.pos) {
			dst = append(dst, it.handle)
		}
	}
	if n.firstChild >= 0 {
		for c := n.firstChild; c < n.firstChild+4; c++ {
			dst = t.query(c, r, dst)
		}
	}
	return dst
}

// collect appends every handle of the subtree rooted at i.
func (t *Tree) collect(i int32, dst []int) []int {
	n := &t.nodes[i]
	for _, it := range n.items {
		dst = append(dst, it.handle)
	}
	if n.firstChild >= 0 {
		for c := n.firstChild; c < n.firstChild+4; c++ {
			dst = t.collect(c, dst)
		}
	}
	return dst
}

// Walk calls fn for every node, parents before children, with the node
// region, its depth and the number of items stored directly in it.
func (t *Tree) Walk(fn func(boundary geometry.Rectangle, depth int, items int)) {
	if len(t.nodes) == 0 {
		return
	}
	t.walk(0, fn)
}

func (t *Tree) walk(i int32, fn func(geometry.Rectangle, int, int)) {
	n := &t.nodes[i]
	fn(n.rectangle(), n.depth, len(n.items))
	if n.firstChild >= 0 {
		for c := n.firstChild; c < n.firstChild+4; c++ {
			t.walk(c, fn)
		}
	}
}

// Stats returns the current shape of the tree.
func (t *Tree) Stats() Stats {
	s := Stats{Nodes: len(t.nodes), Items: t.count}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.firstChild < 0 {
			s.Leaves++
		}
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
	}
	return s
}
