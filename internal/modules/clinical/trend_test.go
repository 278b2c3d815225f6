package clinical

import "testing"

func TestMoodTrend(t *testing.T) {
	cases := []struct {
		name  string
		moods []int
		want  string
	}{
		{"empty", nil, TrendInsufficient},
		{"single", []int{5}, TrendInsufficient},
		{"improving", []int{2, 3, 6, 7}, TrendImproving},
		{"declining", []int{8, 7, 4, 3}, TrendDeclining},
		{"stable", []int{5, 6, 6, 5}, TrendStable},
		{"exactly_one_up", []int{4, 5}, TrendStable},
		{"odd_length", []int{2, 6, 6}, TrendImproving},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MoodTrend(tc.moods); got != tc.want {
				t.Fatalf("MoodTrend(%v)=%q want %q", tc.moods, got, tc.want)
			}
		})
	}
}
