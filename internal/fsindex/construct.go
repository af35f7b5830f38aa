package fsindex

import (
	"github.com/Aman-CERP/filescout/internal/slab"
)

// Construct turns a transient Node tree into a live Tree: slab, name index,
// and root index. It always builds fresh structures and never mutates
// existing state, so the same function serves the initial build and every
// full rescan.
//
// The walker pre-sorts children by name, so the preorder traversal here
// visits nodes in ascending path order. That makes the unchecked
// AppendOrdered insertion into the name index safe at every step; this is
// the only call site allowed to use it.
func Construct(root *Node, rootPath string, stats WalkStats) *Tree {
	t := &Tree{
		RootPath: rootPath,
		Names:    slab.NewNameIndex(),
		Stats:    stats,
	}
	t.Root = constructNode(t, root, slab.NoIndex)
	return t
}

// constructNode inserts node before its children so the children can record
// their parent index; the child-index list is attached to the parent after
// recursion returns.
func constructNode(t *Tree, node *Node, parent slab.OptionIndex) slab.Index {
	idx := t.Nodes.Insert(SlabNode{
		Parent: parent,
		Name:   node.Name,
		Meta:   node.Meta,
	})
	t.Names.AppendOrdered(node.Name, idx)

	if len(node.Children) > 0 {
		children := make([]slab.Index, 0, len(node.Children))
		parentOpt := slab.SomeIndex(idx)
		for _, child := range node.Children {
			children = append(children, constructNode(t, child, parentOpt))
		}
		t.Nodes.Get(idx).Children = children
	}
	return idx
}
