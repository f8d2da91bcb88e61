package payroll

import "testing"

func strPtr(s string) *string { return &s }

func TestWorkedHours(t *testing.T) {
	cases := []struct {
		name  string
		start *string
		end   *string
		want  float64
	}{
		{"nil start", nil, strPtr("17:00"), 0},
		{"nil end", strPtr("09:00"), nil, 0},
		{"both nil", nil, nil, 0},
		{"four hours", strPtr("09:00"), strPtr("13:00"), 4},
		{"fractional hours", strPtr("09:30"), strPtr("13:15"), 3.75},
		{"with seconds", strPtr("09:00:00"), strPtr("17:30:00"), 8.5},
		{"mixed layouts", strPtr("09:00"), strPtr("12:00:00"), 3},
		{"zero-length shift", strPtr("10:00"), strPtr("10:00"), 0},
		{"overnight clamps to zero", strPtr("22:00"), strPtr("02:00"), 0},
		{"unparseable start", strPtr("nine am"), strPtr("17:00"), 0},
		{"unparseable end", strPtr("09:00"), strPtr("late"), 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := workedHours(c.start, c.end)
			if got != c.want {
				t.Errorf("workedHours(%v, %v) = %v, want %v", c.start, c.end, got, c.want)
			}
		})
	}
}
