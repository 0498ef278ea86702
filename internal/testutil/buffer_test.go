package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadSafeBuffer(t *testing.T) {
	var buf ThreadSafeBuffer
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fmt.Fprintf(&buf, "line %d\n", i)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, buf.Lines(), 10)
	buf.Reset()
	assert.Empty(t, buf.String())
	assert.Nil(t, buf.Lines())
}
