package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planTables = []Table{
	{ID: "A", Capacity: 2, Active: true},
	{ID: "B", Capacity: 4, Active: true},
	{ID: "C", Capacity: 6, Active: true},
}

func TestOptimizeTablesBestFit(t *testing.T) {
	bookings := []PlanBooking{
		{ID: "1", Time: "19:00", Guests: 6},
		{ID: "2", Time: "19:00", Guests: 2},
	}

	plan := OptimizeTables(bookings, planTables)

	require.Equal(t, []Assignment{
		{BookingID: "1", TableID: "C"},
		{BookingID: "2", TableID: "A"},
	}, plan.Assignments)
	assert.Empty(t, plan.Unassigned)
	assert.Equal(t, 1.0, plan.UtilizationRate)
}

func TestOptimizeTablesLargestPartyFirst(t *testing.T) {
	// Placed smallest-first, the 2-top would take table A and the 5-top
	// would still fit C; but a 4-top arriving first must not steal C.
	bookings := []PlanBooking{
		{ID: "small", Time: "19:00", Guests: 2},
		{ID: "big", Time: "19:00", Guests: 5},
		{ID: "mid", Time: "19:00", Guests: 4},
	}

	plan := OptimizeTables(bookings, planTables)

	require.Len(t, plan.Assignments, 3)
	assert.Equal(t, Assignment{BookingID: "big", TableID: "C"}, plan.Assignments[0])
	assert.Equal(t, Assignment{BookingID: "mid", TableID: "B"}, plan.Assignments[1])
	assert.Equal(t, Assignment{BookingID: "small", TableID: "A"}, plan.Assignments[2])
}

func TestOptimizeTablesPartialAssignment(t *testing.T) {
	bookings := []PlanBooking{
		{ID: "1", Time: "19:00", Guests: 6},
		{ID: "2", Time: "19:00", Guests: 6}, // only one six-top exists
		{ID: "3", Time: "19:00", Guests: 9}, // fits nowhere
	}

	plan := OptimizeTables(bookings, planTables)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "C", plan.Assignments[0].TableID)
	assert.ElementsMatch(t, []string{"2", "3"}, plan.Unassigned)
}

func TestOptimizeTablesReusesTablesAcrossSlots(t *testing.T) {
	bookings := []PlanBooking{
		{ID: "1", Time: "18:00", Guests: 6},
		{ID: "2", Time: "20:00", Guests: 6},
	}

	plan := OptimizeTables(bookings, planTables)

	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, "C", plan.Assignments[0].TableID)
	assert.Equal(t, "C", plan.Assignments[1].TableID)
	// Capacity counted per use: (6+6)/(6+6).
	assert.Equal(t, 1.0, plan.UtilizationRate)
}

func TestOptimizeTablesNoDoubleSeating(t *testing.T) {
	bookings := []PlanBooking{
		{ID: "1", Time: "19:00", Guests: 2},
		{ID: "2", Time: "19:00", Guests: 2},
		{ID: "3", Time: "19:00", Guests: 2},
		{ID: "4", Time: "19:00", Guests: 2},
	}

	plan := OptimizeTables(bookings, planTables)

	assert.LessOrEqual(t, len(plan.Assignments), len(bookings))
	used := map[string]bool{}
	for _, a := range plan.Assignments {
		assert.False(t, used[a.TableID], "table %s seated twice in one slot", a.TableID)
		used[a.TableID] = true
	}
	assert.Len(t, plan.Assignments, 3)
	assert.Equal(t, []string{"4"}, plan.Unassigned)
}

func TestOptimizeTablesEmptyAndInactive(t *testing.T) {
	plan := OptimizeTables(nil, planTables)
	assert.Empty(t, plan.Assignments)
	assert.Zero(t, plan.UtilizationRate)

	inactive := []Table{{ID: "X", Capacity: 8, Active: false}}
	plan = OptimizeTables([]PlanBooking{{ID: "1", Time: "19:00", Guests: 2}}, inactive)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, []string{"1"}, plan.Unassigned)
	assert.Zero(t, plan.UtilizationRate)
}

func TestOptimizeTablesDeterministic(t *testing.T) {
	bookings := []PlanBooking{
		{ID: "b", Time: "19:00", Guests: 2},
		{ID: "a", Time: "19:00", Guests: 2},
		{ID: "c", Time: "18:00", Guests: 4},
	}
	first := OptimizeTables(bookings, planTables)
	second := OptimizeTables(bookings, planTables)
	assert.Equal(t, first, second)

	// Equal party sizes break ties by booking ID.
	assert.Equal(t, "a", first.Assignments[1].BookingID)
}
