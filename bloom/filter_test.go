package bloom_test

import (
	"fmt"
	"testing"

	"github.com/sitechat/sitechat/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/page"))

	f.Add("https://example.com/page")

	assert.True(t, f.Test("https://example.com/page"))
	assert.False(t, f.Test("https://example.com/other"))
}

func TestFilter_NoFalseNegatives(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	for i := 0; i < 1000; i++ {
		f.Add(fmt.Sprintf("https://example.com/page/%d", i))
	}
	for i := 0; i < 1000; i++ {
		assert.True(t, f.Test(fmt.Sprintf("https://example.com/page/%d", i)))
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	for i := 0; i < 100; i++ {
		f.Add(fmt.Sprintf("https://example.com/%d", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 100, float64(count), 10)
}
