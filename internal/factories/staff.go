package factories

import (
	"math"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var rosterShape = []struct {
	role     string
	count    int
	minRate  int
	maxRate  int
	startsAt time.Duration
	hours    time.Duration
}{
	{models.RoleServer, 7, 12, 18, 11 * time.Hour, 9 * time.Hour},
	{models.RoleCook, 4, 16, 26, 10 * time.Hour, 10 * time.Hour},
	{models.RoleHost, 2, 13, 17, 16 * time.Hour, 6 * time.Hour},
	{models.RoleManager, 1, 24, 34, 10 * time.Hour, 10 * time.Hour},
	{models.RoleBar, 2, 13, 19, 16 * time.Hour, 7 * time.Hour},
}

type StaffFactory struct {
	g *Generator
}

// CreateRoster hires a fixed-shape team. The last server has left and is
// inactive.
func (sf *StaffFactory) CreateRoster(restaurant *models.Restaurant) []*models.Staff {
	var roster []*models.Staff
	for _, shape := range rosterShape {
		for i := 0; i < shape.count; i++ {
			roster = append(roster, &models.Staff{
				ID:           cuid.New(),
				RestaurantID: restaurant.ID,
				Name:         sf.g.fake.Person().Name(),
				Role:         shape.role,
				HourlyRate:   math.Round(sf.g.fake.Float64(2, shape.minRate, shape.maxRate)*4) / 4,
				Active:       !(shape.role == models.RoleServer && i == shape.count-1),
			})
		}
	}
	return roster
}

// ScheduleShifts gives every active staff member five shifts a week on a
// rotating pattern, with clock-in and clock-out jitter on most of them.
func (sf *StaffFactory) ScheduleShifts(restaurant *models.Restaurant, roster []*models.Staff, days []time.Time) []*models.Shift {
	window := make(map[string][2]time.Duration, len(rosterShape))
	for _, shape := range rosterShape {
		window[shape.role] = [2]time.Duration{shape.startsAt, shape.hours}
	}

	var shifts []*models.Shift
	for i, member := range roster {
		if !member.Active {
			continue
		}
		w := window[member.Role]
		for d, day := range days {
			// two consecutive days off, staggered across the team
			if (d+i)%7 >= 5 {
				continue
			}
			start := day.Add(w[0])
			shift := &models.Shift{
				ID:             cuid.New(),
				RestaurantID:   restaurant.ID,
				StaffID:        member.ID,
				Role:           member.Role,
				ScheduledStart: start,
				ScheduledEnd:   start.Add(w[1]),
			}
			if sf.g.rng.Float64() < 0.9 {
				in := start.Add(time.Duration(sf.g.rng.Intn(31)-15) * time.Minute)
				out := shift.ScheduledEnd.Add(time.Duration(sf.g.rng.Intn(46)-15) * time.Minute)
				shift.ActualStart, shift.ActualEnd = &in, &out
			}
			shifts = append(shifts, shift)
		}
	}
	return shifts
}
