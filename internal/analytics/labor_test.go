package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

func laborOpts(maxHours float64) LaborOptions {
	return LaborOptions{
		CoversPerServer:     20,
		CoversPerCook:       40,
		ShiftStart:          11 * time.Hour,
		ShiftHours:          9,
		MaxHoursPerEmployee: maxHours,
		Location:            time.UTC,
	}
}

func week(covers int) []DayDemand {
	days := make([]DayDemand, 7)
	for i := range days {
		days[i] = DayDemand{Date: monday.AddDate(0, 0, i), Covers: covers, Source: CoverSourceOverride}
	}
	return days
}

func TestRequiredHeadcount(t *testing.T) {
	tests := []struct {
		covers                int
		servers, cooks, hosts int
	}{
		{0, 0, 0, 1},
		{1, 1, 1, 1},
		{20, 1, 1, 1},
		{21, 2, 1, 1},
		{100, 5, 3, 1},
	}

	for _, tt := range tests {
		got := RequiredHeadcount(tt.covers, laborOpts(40))
		if got[models.RoleServer] != tt.servers || got[models.RoleCook] != tt.cooks || got[models.RoleHost] != tt.hosts {
			t.Errorf("RequiredHeadcount(%d) = %v, want %d/%d/%d", tt.covers, got, tt.servers, tt.cooks, tt.hosts)
		}
	}
}

func TestAllocateLabor_RespectsHoursCap(t *testing.T) {
	roster := []*models.Staff{
		{ID: "s1", Name: "Ana", Role: models.RoleServer, HourlyRate: 15},
		{ID: "s2", Name: "Ben", Role: models.RoleServer, HourlyRate: 15},
		{ID: "s3", Name: "Cy", Role: models.RoleServer, HourlyRate: 16},
		{ID: "k1", Name: "Dee", Role: models.RoleCook, HourlyRate: 20},
		{ID: "m1", Name: "Eve", Role: models.RoleManager, HourlyRate: 25},
	}

	plan := AllocateLabor(week(100), roster, laborOpts(40))

	for id, h := range plan.HoursByStaff {
		if h > 40 {
			t.Errorf("%s assigned %v hours, over the 40 hour cap", id, h)
		}
	}
	// 9-hour shifts fit four times under 40 hours
	if plan.HoursByStaff["s1"] != 36 {
		t.Errorf("s1 hours = %v, want 36", plan.HoursByStaff["s1"])
	}
	first := plan.Days[0]
	if first.Required[models.RoleServer] != 5 || first.Assigned[models.RoleServer] != 3 || first.Shortage[models.RoleServer] != 2 {
		t.Errorf("day 0 servers required/assigned/short = %d/%d/%d", first.Required[models.RoleServer], first.Assigned[models.RoleServer], first.Shortage[models.RoleServer])
	}
	last := plan.Days[6]
	if last.Assigned[models.RoleServer] != 0 || last.Shortage[models.RoleServer] != 5 {
		t.Errorf("day 6 should be unstaffed once the cap is hit: %+v", last.Assigned)
	}
	if !plan.RequiresReview {
		t.Error("plan must be flagged for review")
	}
}

func TestAllocateLabor_CapProperty(t *testing.T) {
	roles := []string{models.RoleServer, models.RoleCook, models.RoleHost, models.RoleManager, models.RoleBar}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		roster := make([]*models.Staff, rng.Intn(12))
		for i := range roster {
			roster[i] = &models.Staff{ID: string(rune('a' + i)), Role: roles[rng.Intn(len(roles))], HourlyRate: 15}
		}
		maxHours := float64(rng.Intn(60))
		days := week(rng.Intn(200))

		plan := AllocateLabor(days, roster, laborOpts(maxHours))

		for id, h := range plan.HoursByStaff {
			if h > maxHours {
				t.Fatalf("seed %d: %s has %v hours over cap %v", seed, id, h, maxHours)
			}
		}
		for _, d := range plan.Days {
			seen := make(map[string]bool)
			for _, s := range d.Shifts {
				if seen[s.StaffID] {
					t.Fatalf("seed %d: %s double-booked on %s", seed, s.StaffID, d.Date)
				}
				seen[s.StaffID] = true
			}
			for role, need := range d.Required {
				if d.Assigned[role]+d.Shortage[role] != need {
					t.Fatalf("seed %d: %s assigned+shortage != required", seed, role)
				}
			}
		}
	}
}

func TestAllocateLabor_HostFilledByManager(t *testing.T) {
	roster := []*models.Staff{
		{ID: "srv", Role: models.RoleServer, HourlyRate: 15},
		{ID: "mgr", Role: models.RoleManager, HourlyRate: 30},
	}

	plan := AllocateLabor([]DayDemand{{Date: monday, Covers: 10}}, roster, laborOpts(40))

	day := plan.Days[0]
	if len(day.Shifts) != 2 {
		t.Fatalf("got %d shifts, want server and host", len(day.Shifts))
	}
	host := day.Shifts[1]
	if host.StaffID != "mgr" || host.Role != models.RoleHost {
		t.Errorf("host shift = %+v, want manager covering host", host)
	}
	wantStart := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	if !host.Start.Equal(wantStart) || !host.End.Equal(wantStart.Add(9*time.Hour)) {
		t.Errorf("shift window = %s..%s", host.Start, host.End)
	}
	if day.LaborCost != 9*15+9*30 {
		t.Errorf("LaborCost = %v", day.LaborCost)
	}
	if day.Shortage[models.RoleCook] != 1 {
		t.Errorf("cook shortage = %d, want 1", day.Shortage[models.RoleCook])
	}
	if plan.CoversPerLaborHour != 10.0/18 {
		t.Errorf("CoversPerLaborHour = %v", plan.CoversPerLaborHour)
	}
}

func TestAllocateLabor_ShiftInRestaurantZone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	opts := laborOpts(40)
	opts.Location = loc

	plan := AllocateLabor([]DayDemand{{Date: monday, Covers: 0}}, []*models.Staff{{ID: "h", Role: models.RoleHost}}, opts)

	got := plan.Days[0].Shifts[0].Start
	if got.UTC().Hour() != 16 {
		t.Errorf("11:00 EST should be 16:00 UTC, got %s", got.UTC())
	}
}
