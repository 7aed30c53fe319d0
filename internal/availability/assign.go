package availability

import "sort"

// PlanBooking is the optimizer's view of a reservation.
type PlanBooking struct {
	ID     string `json:"id"`
	Time   string `json:"time"` // HH:MM
	Guests int    `json:"guests"`
}

// Assignment seats one booking at one table.
type Assignment struct {
	BookingID string `json:"booking_id"`
	TableID   string `json:"table_id"`
}

// Plan is the result of a greedy best-fit table assignment.
type Plan struct {
	Assignments []Assignment `json:"assignments"`
	// Unassigned lists bookings no table could seat, surfaced for manual
	// review rather than dropped silently.
	Unassigned      []string `json:"unassigned"`
	UtilizationRate float64  `json:"utilization_rate"`
}

// OptimizeTables seats bookings greedily: tables considered smallest first,
// and within each time slot the largest parties are placed first so big
// groups are not fragmented out of the room. A table seats at most one
// booking per time slot. The plan never fails; bookings that fit nowhere
// land in Unassigned.
//
// UtilizationRate is seated guests over the capacity of every table use
// (a table used in two slots counts its capacity twice), 0 when nothing
// was seated. Ties sort by ID so identical inputs give identical plans.
func OptimizeTables(bookings []PlanBooking, tables []Table) Plan {
	usable := make([]Table, 0, len(tables))
	for _, t := range tables {
		if !t.Active || t.Capacity <= 0 {
			continue
		}
		usable = append(usable, t)
	}
	sort.Slice(usable, func(i, j int) bool {
		if usable[i].Capacity != usable[j].Capacity {
			return usable[i].Capacity < usable[j].Capacity
		}
		return usable[i].ID < usable[j].ID
	})

	bySlot := make(map[string][]PlanBooking)
	var slotOrder []string
	for _, b := range bookings {
		if _, ok := bySlot[b.Time]; !ok {
			slotOrder = append(slotOrder, b.Time)
		}
		bySlot[b.Time] = append(bySlot[b.Time], b)
	}
	sort.Strings(slotOrder)

	plan := Plan{Assignments: []Assignment{}, Unassigned: []string{}}
	seated := 0
	usedCapacity := 0

	for _, slot := range slotOrder {
		group := bySlot[slot]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Guests != group[j].Guests {
				return group[i].Guests > group[j].Guests
			}
			return group[i].ID < group[j].ID
		})

		taken := make(map[string]bool, len(usable))
		for _, b := range group {
			if b.Guests <= 0 {
				plan.Unassigned = append(plan.Unassigned, b.ID)
				continue
			}
			placed := false
			for _, t := range usable {
				if taken[t.ID] || t.Capacity < b.Guests {
					continue
				}
				taken[t.ID] = true
				plan.Assignments = append(plan.Assignments, Assignment{BookingID: b.ID, TableID: t.ID})
				seated += b.Guests
				usedCapacity += t.Capacity
				placed = true
				break
			}
			if !placed {
				plan.Unassigned = append(plan.Unassigned, b.ID)
			}
		}
	}

	if usedCapacity > 0 {
		plan.UtilizationRate = float64(seated) / float64(usedCapacity)
	}
	return plan
}
