package fsindex

import (
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/filescout/internal/slab"
)

// NodeView derives facts about one node on demand by walking parent links.
// The index stores no per-node path; a view rebuilds it when asked.
type NodeView struct {
	tree *Tree
	idx  slab.Index
}

// Index returns the underlying slab index.
func (v NodeView) Index() slab.Index {
	return v.idx
}

// Valid reports whether the view still addresses a live node.
func (v NodeView) Valid() bool {
	return v.tree.Nodes.Contains(v.idx)
}

// Name returns the interned entry name.
func (v NodeView) Name() string {
	if node := v.tree.Nodes.Get(v.idx); node != nil {
		return node.Name
	}
	return ""
}

// Meta returns the entry metadata.
func (v NodeView) Meta() Metadata {
	if node := v.tree.Nodes.Get(v.idx); node != nil {
		return node.Meta
	}
	return Metadata{}
}

// Parent returns the parent view and whether one exists. The root has no
// parent.
func (v NodeView) Parent() (NodeView, bool) {
	node := v.tree.Nodes.Get(v.idx)
	if node == nil {
		return NodeView{}, false
	}
	parent, ok := node.Parent.Get()
	if !ok {
		return NodeView{}, false
	}
	return v.tree.View(parent), true
}

// Path returns the absolute path of the node, derived by walking parent
// links to the root.
func (v NodeView) Path() string {
	components := v.tree.components(v.idx)
	if len(components) == 0 {
		return v.tree.RootPath
	}
	var b strings.Builder
	b.Grow(len(v.tree.RootPath) + 16*len(components))
	b.WriteString(v.tree.RootPath)
	for _, c := range components {
		b.WriteByte(filepath.Separator)
		b.WriteString(c)
	}
	return b.String()
}

// RelPath returns the path relative to the watched root, "" for the root
// itself.
func (v NodeView) RelPath() string {
	return strings.Join(v.tree.components(v.idx), string(filepath.Separator))
}

// Depth returns the number of links between the node and the root.
func (v NodeView) Depth() int {
	depth := 0
	cur := v.idx
	for cur != v.tree.Root {
		node := v.tree.Nodes.Get(cur)
		if node == nil {
			break
		}
		parent, ok := node.Parent.Get()
		if !ok {
			break
		}
		depth++
		cur = parent
	}
	return depth
}

// Hidden reports whether the entry name itself is dot-prefixed.
func (v NodeView) Hidden() bool {
	name := v.Name()
	return len(name) > 0 && name[0] == '.'
}

// HasHiddenAncestor reports whether any ancestor below the root is
// dot-prefixed. The root's own name never counts.
func (v NodeView) HasHiddenAncestor() bool {
	cur, ok := v.Parent()
	for ok && cur.idx != v.tree.Root {
		if cur.Hidden() {
			return true
		}
		cur, ok = cur.Parent()
	}
	return false
}
