package fsindex

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Aman-CERP/filescout/internal/slab"
)

// Tree is one live index snapshot: the node slab, the name index, and the
// root. It is exclusively owned and mutated by the index-owner goroutine;
// readers go through Index.Read which serializes against the writer.
type Tree struct {
	RootPath string
	Root     slab.Index
	Nodes    slab.Slab[SlabNode]
	Names    *slab.NameIndex
	Stats    WalkStats
}

// Len returns the number of indexed entries.
func (t *Tree) Len() int {
	return t.Nodes.Len()
}

// View wraps idx for on-demand derivation of path, depth, and ancestor
// facts. Views hold no state beyond the pair (tree, index); nothing is
// cached per node.
func (t *Tree) View(idx slab.Index) NodeView {
	return NodeView{tree: t, idx: idx}
}

// PathLess orders two nodes by full path, comparing component-wise from the
// root. Component order is what preorder construction produces, so the two
// insertion paths of the name index agree on ordering.
func (t *Tree) PathLess(a, b slab.Index) bool {
	ca := t.components(a)
	cb := t.components(b)
	n := len(ca)
	if len(cb) < n {
		n = len(cb)
	}
	for i := 0; i < n; i++ {
		if ca[i] != cb[i] {
			return ca[i] < cb[i]
		}
	}
	return len(ca) < len(cb)
}

// components returns the node names from the root (exclusive) down to idx.
func (t *Tree) components(idx slab.Index) []string {
	var rev []string
	cur := idx
	for cur != t.Root {
		node := t.Nodes.Get(cur)
		if node == nil {
			break
		}
		rev = append(rev, node.Name)
		parent, ok := node.Parent.Get()
		if !ok {
			break
		}
		cur = parent
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// ResolvePath maps an absolute path inside the watched root to its slab
// index. Returns false for paths outside the root or not present in the
// index.
func (t *Tree) ResolvePath(path string) (slab.Index, bool) {
	rel, ok := t.relative(path)
	if !ok {
		return slab.Invalid, false
	}
	if rel == "" {
		return t.Root, true
	}

	cur := t.Root
	for _, component := range strings.Split(rel, string(filepath.Separator)) {
		child, ok := t.childByName(cur, component)
		if !ok {
			return slab.Invalid, false
		}
		cur = child
	}
	return cur, true
}

// relative strips the root prefix from an absolute path. The empty string
// with ok=true denotes the root itself.
func (t *Tree) relative(path string) (string, bool) {
	cleaned := filepath.Clean(path)
	if cleaned == t.RootPath {
		return "", true
	}
	prefix := t.RootPath + string(filepath.Separator)
	if !strings.HasPrefix(cleaned, prefix) {
		return "", false
	}
	return cleaned[len(prefix):], true
}

// childByName binary-searches the name-sorted children of parent.
func (t *Tree) childByName(parent slab.Index, name string) (slab.Index, bool) {
	node := t.Nodes.Get(parent)
	if node == nil {
		return slab.Invalid, false
	}
	children := node.Children
	pos := sort.Search(len(children), func(i int) bool {
		return t.Nodes.Get(children[i]).Name >= name
	})
	if pos < len(children) && t.Nodes.Get(children[pos]).Name == name {
		return children[pos], true
	}
	return slab.Invalid, false
}

// InsertChild inserts a new node under parent, keeping the child list
// sorted by name and the name index ordered by path. This is the checked
// incremental path; bulk construction bypasses it via AppendOrdered.
func (t *Tree) InsertChild(parent slab.Index, name string, meta Metadata) slab.Index {
	idx := t.Nodes.Insert(SlabNode{
		Parent: slab.SomeIndex(parent),
		Name:   name,
		Meta:   meta,
	})

	p := t.Nodes.Get(parent)
	pos := sort.Search(len(p.Children), func(i int) bool {
		return t.Nodes.Get(p.Children[i]).Name >= name
	})
	p.Children = append(p.Children, 0)
	copy(p.Children[pos+1:], p.Children[pos:])
	p.Children[pos] = idx

	t.Names.InsertSorted(name, idx, t.PathLess)
	return idx
}

// RemoveSubtree removes idx and all its descendants from the slab and the
// name index, and detaches idx from its parent's child list. Removing the
// root is not supported; a vanished root forces a rescan instead.
func (t *Tree) RemoveSubtree(idx slab.Index) {
	node := t.Nodes.Get(idx)
	if node == nil || idx == t.Root {
		return
	}
	if parent, ok := node.Parent.Get(); ok {
		p := t.Nodes.Get(parent)
		for i, child := range p.Children {
			if child == idx {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}
	t.removeRecursive(idx)
}

func (t *Tree) removeRecursive(idx slab.Index) {
	node := t.Nodes.Get(idx)
	if node == nil {
		return
	}
	for _, child := range node.Children {
		t.removeRecursive(child)
	}
	t.Names.Remove(node.Name, idx)
	t.Nodes.Remove(idx)
}
