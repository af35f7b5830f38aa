package namepool

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntern_SameStringSameValue(t *testing.T) {
	a := Intern("main.go")
	b := Intern("main.go")

	assert.Equal(t, a, b)
}

func TestIntern_DistinctStrings(t *testing.T) {
	a := Intern("alpha.txt")
	b := Intern("beta.txt")

	assert.NotEqual(t, a, b)
}

func TestIntern_DetachesFromBackingArray(t *testing.T) {
	path := []byte("/home/user/project/README.md")
	name := string(path[19:]) // "README.md"

	interned := Intern(name)
	assert.Equal(t, "README.md", interned)
}

func TestIntern_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Half shared names, half unique per worker.
				Intern(fmt.Sprintf("shared-%d.go", j%10))
				Intern(fmt.Sprintf("w%d-%d.go", worker, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, Intern("shared-0.go"), Intern("shared-0.go"))
}
