package fsindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hiddenFixture() *Tree {
	root := buildNode("proj", EntryFolder, 0,
		buildNode(".git", EntryFolder, 0,
			buildNode("HEAD", EntryFile, 23),
		),
		buildNode("src", EntryFolder, 0,
			buildNode(".env", EntryFile, 100),
			buildNode("main.go", EntryFile, 500),
		),
	)
	return Construct(root, "/home/u/proj", WalkStats{})
}

func TestNodeView_PathAndDepth(t *testing.T) {
	tree := hiddenFixture()

	idx, ok := tree.ResolvePath("/home/u/proj/src/main.go")
	require.True(t, ok)
	v := tree.View(idx)

	assert.Equal(t, "/home/u/proj/src/main.go", v.Path())
	assert.Equal(t, "src/main.go", v.RelPath())
	assert.Equal(t, 2, v.Depth())
	assert.Equal(t, "main.go", v.Name())
}

func TestNodeView_RootFacts(t *testing.T) {
	tree := hiddenFixture()
	v := tree.View(tree.Root)

	assert.Equal(t, "/home/u/proj", v.Path())
	assert.Equal(t, "", v.RelPath())
	assert.Equal(t, 0, v.Depth())
	_, hasParent := v.Parent()
	assert.False(t, hasParent)
}

func TestNodeView_HiddenAncestry(t *testing.T) {
	tree := hiddenFixture()

	head, ok := tree.ResolvePath("/home/u/proj/.git/HEAD")
	require.True(t, ok)
	assert.True(t, tree.View(head).HasHiddenAncestor())
	assert.False(t, tree.View(head).Hidden())

	env, ok := tree.ResolvePath("/home/u/proj/src/.env")
	require.True(t, ok)
	assert.True(t, tree.View(env).Hidden())
	assert.False(t, tree.View(env).HasHiddenAncestor())

	main, ok := tree.ResolvePath("/home/u/proj/src/main.go")
	require.True(t, ok)
	assert.False(t, tree.View(main).Hidden())
	assert.False(t, tree.View(main).HasHiddenAncestor())
}

func TestTree_PathLessIsComponentwise(t *testing.T) {
	// "a.txt" sorts before the directory "a/..." children by name at the
	// sibling level, but component order keeps a parent before its
	// children and children before later siblings' subtrees.
	root := buildNode("r", EntryFolder, 0,
		buildNode("a", EntryFolder, 0,
			buildNode("z.txt", EntryFile, 1),
		),
		buildNode("a.txt", EntryFile, 1),
	)
	tree := Construct(root, "/r", WalkStats{})

	a, _ := tree.ResolvePath("/r/a")
	az, _ := tree.ResolvePath("/r/a/z.txt")
	atxt, _ := tree.ResolvePath("/r/a.txt")

	assert.True(t, tree.PathLess(a, az))
	assert.True(t, tree.PathLess(a, atxt))
	assert.True(t, tree.PathLess(az, atxt), "component order, not byte order over the joined string")
}

func TestTree_InsertChildAndRemoveSubtree(t *testing.T) {
	tree := hiddenFixture()
	before := tree.Len()

	src, ok := tree.ResolvePath("/home/u/proj/src")
	require.True(t, ok)

	idx := tree.InsertChild(src, "new.go", Metadata{Type: EntryFile, Size: 7})
	assert.Equal(t, before+1, tree.Len())

	resolved, ok := tree.ResolvePath("/home/u/proj/src/new.go")
	require.True(t, ok)
	assert.Equal(t, idx, resolved)
	require.NotNil(t, tree.Names.Lookup("new.go"))

	tree.RemoveSubtree(src)
	assert.Equal(t, before-3, tree.Len())
	_, ok = tree.ResolvePath("/home/u/proj/src/new.go")
	assert.False(t, ok)
	assert.Nil(t, tree.Names.Lookup("new.go"))
	assert.Nil(t, tree.Names.Lookup("src"))
}

func TestTree_RemoveRootIsRefused(t *testing.T) {
	tree := hiddenFixture()
	before := tree.Len()

	tree.RemoveSubtree(tree.Root)

	assert.Equal(t, before, tree.Len())
}
