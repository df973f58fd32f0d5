package analytics

import (
	"math"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	CoverSourceOverride = "override"
	CoverSourceForecast = "forecast"
	CoverSourceDefault  = "default"
)

// staffedRoles is the fill order for each day.
var staffedRoles = []string{models.RoleServer, models.RoleCook, models.RoleHost}

// roleEligibility lists which roster roles may fill a required role.
var roleEligibility = map[string][]string{
	models.RoleServer: {models.RoleServer},
	models.RoleCook:   {models.RoleCook},
	models.RoleHost:   {models.RoleHost, models.RoleManager},
}

type LaborOptions struct {
	CoversPerServer     int
	CoversPerCook       int
	ShiftStart          time.Duration // offset from local midnight
	ShiftHours          float64
	MaxHoursPerEmployee float64
	Location            *time.Location
}

// DayDemand is the covers expected on one calendar day (midnight UTC).
type DayDemand struct {
	Date   time.Time
	Covers int
	Source string
}

type SuggestedShift struct {
	StaffID string    `json:"staff_id"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Hours   float64   `json:"hours"`
	Cost    float64   `json:"cost"`
}

type DayStaffing struct {
	Date        time.Time        `json:"date"`
	DayOfWeek   int              `json:"day_of_week"`
	Covers      int              `json:"covers"`
	CoverSource string           `json:"cover_source"`
	Required    map[string]int   `json:"required"`
	Assigned    map[string]int   `json:"assigned"`
	Shortage    map[string]int   `json:"shortage"`
	Shifts      []SuggestedShift `json:"shifts"`
	LaborCost   float64          `json:"labor_cost"`
}

type StaffUtilization struct {
	StaffID     string  `json:"staff_id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Shifts      int     `json:"shifts"`
	Hours       float64 `json:"hours"`
	Utilization float64 `json:"utilization_pct"`
}

type LaborPlan struct {
	WeekStart           time.Time          `json:"week_start"`
	MaxHoursPerEmployee float64            `json:"max_hours_per_employee"`
	Days                []DayStaffing      `json:"days"`
	Staff               []StaffUtilization `json:"staff"`
	HoursByStaff        map[string]float64 `json:"hours_by_staff"`
	TotalCovers         int                `json:"total_covers"`
	TotalHours          float64            `json:"total_hours"`
	TotalCost           float64            `json:"total_cost"`
	CoversPerLaborHour  float64            `json:"covers_per_labor_hour"`
	RequiresReview      bool               `json:"requires_review"`
	Note                string             `json:"note"`
}

// RequiredHeadcount converts covers into per-role headcount: one server per
// CoversPerServer, one cook per CoversPerCook (both rounded up) and one host.
func RequiredHeadcount(covers int, opts LaborOptions) map[string]int {
	perServer := math.Max(1, float64(opts.CoversPerServer))
	perCook := math.Max(1, float64(opts.CoversPerCook))
	c := math.Max(0, float64(covers))
	return map[string]int{
		models.RoleServer: int(math.Ceil(c / perServer)),
		models.RoleCook:   int(math.Ceil(c / perCook)),
		models.RoleHost:   1,
	}
}

// AllocateLabor greedily fills each day's headcount from the roster in
// roster order. A staff member works at most one shift a day and is skipped
// once another shift would take their week past MaxHoursPerEmployee. Unfilled
// slots are reported as shortage. The plan is a suggestion and does not look
// at shifts already on the schedule.
func AllocateLabor(days []DayDemand, roster []*models.Staff, opts LaborOptions) LaborPlan {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	plan := LaborPlan{
		MaxHoursPerEmployee: opts.MaxHoursPerEmployee,
		Days:                make([]DayStaffing, 0, len(days)),
		HoursByStaff:        make(map[string]float64, len(roster)),
		RequiresReview:      true,
		Note:                "Suggested schedule only: review before publishing. Existing shifts are not checked for conflicts.",
	}
	if len(days) > 0 {
		plan.WeekStart = days[0].Date
	}

	shiftsWorked := make(map[string]int, len(roster))
	for _, day := range days {
		y, m, d := day.Date.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, loc).Add(opts.ShiftStart)
		end := start.Add(time.Duration(opts.ShiftHours * float64(time.Hour)))

		ds := DayStaffing{
			Date:        day.Date,
			DayOfWeek:   int(day.Date.Weekday()),
			Covers:      day.Covers,
			CoverSource: day.Source,
			Required:    RequiredHeadcount(day.Covers, opts),
			Assigned:    make(map[string]int, len(staffedRoles)),
			Shortage:    make(map[string]int, len(staffedRoles)),
			Shifts:      []SuggestedShift{},
		}
		workingToday := make(map[string]bool)

		for _, role := range staffedRoles {
			need := ds.Required[role]
			for _, member := range roster {
				if ds.Assigned[role] >= need {
					break
				}
				if workingToday[member.ID] || !eligible(role, member.Role) {
					continue
				}
				if plan.HoursByStaff[member.ID]+opts.ShiftHours > opts.MaxHoursPerEmployee {
					continue
				}
				cost := opts.ShiftHours * member.HourlyRate
				ds.Shifts = append(ds.Shifts, SuggestedShift{
					StaffID: member.ID,
					Name:    member.Name,
					Role:    role,
					Start:   start,
					End:     end,
					Hours:   opts.ShiftHours,
					Cost:    cost,
				})
				ds.Assigned[role]++
				ds.LaborCost += cost
				workingToday[member.ID] = true
				plan.HoursByStaff[member.ID] += opts.ShiftHours
				shiftsWorked[member.ID]++
			}
			ds.Shortage[role] = need - ds.Assigned[role]
		}

		plan.TotalCovers += day.Covers
		plan.TotalCost += ds.LaborCost
		plan.Days = append(plan.Days, ds)
	}

	plan.Staff = make([]StaffUtilization, 0, len(roster))
	for _, member := range roster {
		hours := plan.HoursByStaff[member.ID]
		plan.TotalHours += hours
		plan.Staff = append(plan.Staff, StaffUtilization{
			StaffID:     member.ID,
			Name:        member.Name,
			Role:        member.Role,
			Shifts:      shiftsWorked[member.ID],
			Hours:       hours,
			Utilization: safeDiv(hours, opts.MaxHoursPerEmployee) * 100,
		})
	}
	plan.CoversPerLaborHour = safeDiv(float64(plan.TotalCovers), plan.TotalHours)
	return plan
}

func eligible(required, role string) bool {
	for _, r := range roleEligibility[required] {
		if r == role {
			return true
		}
	}
	return false
}

func (p LaborPlan) Rounded() LaborPlan {
	p.TotalHours = Round2(p.TotalHours)
	p.TotalCost = Round2(p.TotalCost)
	p.CoversPerLaborHour = Round2(p.CoversPerLaborHour)

	days := make([]DayStaffing, len(p.Days))
	for i, d := range p.Days {
		shifts := make([]SuggestedShift, len(d.Shifts))
		for j, s := range d.Shifts {
			s.Hours = Round2(s.Hours)
			s.Cost = Round2(s.Cost)
			shifts[j] = s
		}
		d.Shifts = shifts
		d.LaborCost = Round2(d.LaborCost)
		days[i] = d
	}
	p.Days = days

	staff := make([]StaffUtilization, len(p.Staff))
	for i, s := range p.Staff {
		s.Hours = Round2(s.Hours)
		s.Utilization = Round2(s.Utilization)
		staff[i] = s
	}
	p.Staff = staff

	hours := make(map[string]float64, len(p.HoursByStaff))
	for id, h := range p.HoursByStaff {
		hours[id] = Round2(h)
	}
	p.HoursByStaff = hours
	return p
}
