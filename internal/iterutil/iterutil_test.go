package iterutil

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStringSeq(t *testing.T) {
	cases := []struct {
		name    string
		s       string
		sep     string
		want    []string
		wantLen int
	}{
		{
			name:    "split all empty",
			s:       "",
			sep:     "\n",
			want:    []string{""},
			wantLen: 1,
		},
		{
			name:    "split empty segment",
			s:       "ab\ncd\n\n\nef",
			sep:     "\n",
			want:    []string{"ab", "cd", "", "", "ef"},
			wantLen: 5,
		},
		{
			name:    "split trailing separator",
			s:       "ab\ncd\n",
			sep:     "\n",
			want:    []string{"ab", "cd", ""},
			wantLen: 3,
		},
		{
			name:    "split logcat lines",
			s:       "04-25 17:17:08.445   312   366 E ActivityManager: ANR\r\n04-25 17:17:08.445   312   366 E ActivityManager: Reason",
			sep:     "\r\n",
			want:    []string{"04-25 17:17:08.445   312   366 E ActivityManager: ANR", "04-25 17:17:08.445   312   366 E ActivityManager: Reason"},
			wantLen: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(SplitStringSeq(tc.s, tc.sep))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantLen, len(got))
		})
	}

	t.Run("break", func(t *testing.T) {
		k := 0
		parts := make([]string, 0, 1)
		for part := range SplitStringSeq("1,2,3", ",") {
			if k > 0 {
				break
			}
			parts = append(parts, part)
			k++
		}
		assert.Equal(t, []string{"1"}, parts)
	})

	t.Run("empty separator", func(t *testing.T) {
		assert.Panics(t, func() {
			SplitStringSeq("a", "")
		})
	})
}

func TestTake(t *testing.T) {
	cases := []struct {
		name  string
		elems []int
		count int
		want  []int
	}{
		{
			name:  "take less than available",
			elems: []int{1, 2, 3, 4},
			count: 2,
			want:  []int{1, 2},
		},
		{
			name:  "take more than available",
			elems: []int{1, 2},
			count: 5,
			want:  []int{1, 2},
		},
		{
			name:  "take zero",
			elems: []int{1, 2},
			count: 0,
			want:  nil,
		},
		{
			name:  "take negative",
			elems: []int{1, 2},
			count: -1,
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(Take(SeqOf(tc.elems...), tc.count))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMapFilter(t *testing.T) {
	seq := Filter(Map(SeqOf(1, 2, 3, 4, 5), func(i int) int { return i * 10 }), func(i int) bool { return i%20 == 0 })
	assert.Equal(t, []int{20, 40}, slices.Collect(seq))
}

func TestLeftAndLen2(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	assert.Equal(t, 3, Len2(maps.All(m)))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, slices.Collect(Left(maps.All(m))))
}
