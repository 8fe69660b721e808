package chapters

import (
	"testing"

	"github.com/brogergvhs/dmzjdl/internal/providers"
	"github.com/stretchr/testify/assert"
)

func names(chs []Chapter) []string {
	out := []string{}
	for _, c := range chs {
		out = append(out, c.Name)
	}
	return out
}

func sample() []Chapter {
	return New([]providers.Target{
		{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "b"},
	})
}

func TestFilter(t *testing.T) {
	all := sample()

	assert.Equal(t, []string{"a", "b", "c", "d", "b"}, names(Filter(all, "", "", "")))
	assert.Equal(t, []string{"b", "b"}, names(Filter(all, "b", "", "")), "by name")
	assert.Equal(t, []string{"c"}, names(Filter(all, "3", "", "")), "by index")
	assert.Empty(t, Filter(all, "zz", "", ""))
	assert.Equal(t, []string{"b", "c"}, names(Filter(all, "", "2-3", "")))
	assert.Equal(t, []string{"a", "d"}, names(Filter(all, "", "", "4, 1,1,99,x")))
}

func TestFilterRange(t *testing.T) {
	all := sample()

	assert.Equal(t, []string{"d", "b"}, names(FilterRange(all, "4-10")), "end clamps")
	assert.Nil(t, FilterRange(all, "3-2"))
	assert.Nil(t, FilterRange(all, "0-2"))
	assert.Nil(t, FilterRange(all, "6-7"))
	assert.Nil(t, FilterRange(all, "1"))
	assert.Nil(t, FilterRange(all, "a-b"))
}
