package nodes

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

// Tree is the result of one resolution pass. Nodes keep the server's order.
type Tree struct {
	nodes []*Node
	byID  map[string]*Node
}

func newTree(nodes []*Node) *Tree {
	t := &Tree{nodes: nodes, byID: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		if _, dup := t.byID[n.id]; !dup {
			t.byID[n.id] = n
		}
	}
	return t
}

// Nodes returns every node in server order.
func (t *Tree) Nodes() []*Node {
	return append([]*Node(nil), t.nodes...)
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the node with the given id.
func (t *Tree) Get(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Children returns the direct children of id in server order.
func (t *Tree) Children(id string) []*Node {
	var children []*Node
	for _, n := range t.nodes {
		if n.parentID == id && n.id != id {
			children = append(children, n)
		}
	}
	return children
}

// Roots returns the nodes whose parent is not part of the tree.
func (t *Tree) Roots() []*Node {
	var roots []*Node
	for _, n := range t.nodes {
		if _, ok := t.byID[n.parentID]; !ok || n.parentID == n.id {
			roots = append(roots, n)
		}
	}
	return roots
}

// Path returns the slash-joined names from the top-most known ancestor down
// to the node.
func (t *Tree) Path(n *Node) (string, error) {
	names := []string{n.name}
	current := n
	for steps := 0; ; steps++ {
		if steps > len(t.nodes) {
			return "", fmt.Errorf("%w: parent chain of %s does not terminate", kerrors.ErrMissingKeyMaterial, n.id)
		}
		parent, ok := t.byID[current.parentID]
		if !ok || parent == current {
			break
		}
		names = append(names, parent.name)
		current = parent
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/"), nil
}

// Find looks a node up by id, then by path.
func (t *Tree) Find(ref string) (*Node, error) {
	if n, ok := t.byID[ref]; ok {
		return n, nil
	}

	want := path.Clean("/" + ref)[1:]
	for _, n := range t.nodes {
		p, err := t.Path(n)
		if err != nil {
			return nil, err
		}
		if p == want {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", kerrors.ErrNodeNotFound, ref)
}

// Match returns the nodes whose path matches a doublestar glob pattern.
func (t *Tree) Match(pattern string) ([]*Node, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var matched []*Node
	for _, n := range t.nodes {
		p, err := t.Path(n)
		if err != nil {
			return nil, err
		}
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, n)
		}
	}
	return matched, nil
}
