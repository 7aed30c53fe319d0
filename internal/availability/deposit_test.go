package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessDepositRisk(t *testing.T) {
	// 2025-06-03 Tue, 2025-06-06 Fri, 2025-06-07 Sat, 2025-06-08 Sun.
	tests := []struct {
		name   string
		date   time.Time
		time   string
		guests int
		want   DepositRisk
	}{
		{
			name: "weekday lunch small party",
			date: date(2025, time.June, 3), time: "13:00", guests: 2,
			want: DepositRisk{Required: false, Amount: 0},
		},
		{
			name: "friday prime time",
			date: date(2025, time.June, 6), time: "19:00", guests: 2,
			want: DepositRisk{Required: true, Amount: 25},
		},
		{
			name: "saturday prime time boundary start",
			date: date(2025, time.June, 7), time: "18:00", guests: 4,
			want: DepositRisk{Required: true, Amount: 25},
		},
		{
			name: "saturday prime time boundary end",
			date: date(2025, time.June, 7), time: "21:59", guests: 4,
			want: DepositRisk{Required: true, Amount: 25},
		},
		{
			name: "saturday just past prime",
			date: date(2025, time.June, 7), time: "22:00", guests: 4,
			want: DepositRisk{Required: false, Amount: 0},
		},
		{
			name: "friday before prime",
			date: date(2025, time.June, 6), time: "17:30", guests: 4,
			want: DepositRisk{Required: false, Amount: 0},
		},
		{
			name: "sunday prime hours not weekend rate",
			date: date(2025, time.June, 8), time: "19:00", guests: 2,
			want: DepositRisk{Required: false, Amount: 0},
		},
		{
			name: "large party weekday",
			date: date(2025, time.June, 3), time: "13:00", guests: 6,
			want: DepositRisk{Required: true, Amount: 50},
		},
		{
			name: "large party overrides weekend evening",
			date: date(2025, time.June, 7), time: "19:00", guests: 8,
			want: DepositRisk{Required: true, Amount: 50},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AssessDepositRisk(tc.date, tc.time, tc.guests)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssessDepositRiskInvalid(t *testing.T) {
	_, err := AssessDepositRisk(date(2025, time.June, 7), "19:00", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = AssessDepositRisk(date(2025, time.June, 7), "7pm", 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Trailing garbage in the minutes field must not be read as a valid
	// prime-time clock value.
	_, err = AssessDepositRisk(date(2025, time.June, 6), "19:3a", 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = AssessDepositRisk(time.Time{}, "19:00", 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAssessDepositRiskDeterministic(t *testing.T) {
	d := date(2025, time.June, 7)
	first, err := AssessDepositRisk(d, "19:00", 8)
	require.NoError(t, err)
	second, err := AssessDepositRisk(d, "19:00", 8)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
