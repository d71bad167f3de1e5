package scheduler

import (
	"sort"
	"strings"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
)

// Strategy identifies which heuristic produced a candidate
type Strategy int

const (
	StrategyRuleAware Strategy = iota
	StrategyRotation
	StrategyRotationWithOff
	StrategySplit
	StrategyMixed
	StrategySingleShift
	StrategyMinimalStaffing
	StrategyAlternating
)

func (s Strategy) String() string {
	switch s {
	case StrategyRuleAware:
		return "rule_aware"
	case StrategyRotation:
		return "rotation"
	case StrategyRotationWithOff:
		return "rotation_with_off"
	case StrategySplit:
		return "split"
	case StrategyMixed:
		return "mixed"
	case StrategySingleShift:
		return "single_shift"
	case StrategyMinimalStaffing:
		return "minimal_staffing"
	case StrategyAlternating:
		return "alternating"
	}
	return "unknown"
}

// Candidate is one proposed assignment of shifts (including day-off) to the
// available employees for a single day. Employees absent from Assignments
// are left unassigned for the day.
type Candidate struct {
	Assignments map[string]string // employee id -> shift id
	Strategy    Strategy
}

// Entries materialises the candidate as schedule entries for the given day
func (c Candidate) Entries(day, month, year int) []model.ScheduleEntry {
	entries := make([]model.ScheduleEntry, 0, len(c.Assignments))
	for _, empID := range sortedKeys(c.Assignments) {
		entries = append(entries, model.ScheduleEntry{
			EmployeeID: empID,
			Day:        day,
			Month:      month,
			Year:       year,
			ShiftID:    c.Assignments[empID],
		})
	}
	return entries
}

// signature is the canonical structural identity of a candidate: the sorted
// (employee, shift) pair multiset. Two candidates with equal signatures
// assign identically regardless of generation order.
func (c Candidate) signature() string {
	pairs := make([]string, 0, len(c.Assignments))
	for empID, shiftID := range c.Assignments {
		pairs = append(pairs, empID+"\x1f"+shiftID)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x1e")
}

// DefaultConsecutiveLimit is used when no max-consecutive-work-days rule
// is configured
const DefaultConsecutiveLimit = 5

// variantInput bundles what the strategies need for one day
type variantInput struct {
	day       int
	month     int
	year      int
	available []model.Employee
	shifts    []model.ShiftType // working shifts only, catalog order
	ruleset   []rules.Rule
	ctx       *rules.Context // accumulated schedule up to the previous day
}

// DayVariants produces the ordered list of distinct candidates for one day.
// The rule-aware candidate comes first; the naive heuristics follow.
// Duplicates (by assignment multiset) are dropped, keeping the first.
func DayVariants(
	day, month, year int,
	available []model.Employee,
	workingShifts []model.ShiftType,
	ruleset []rules.Rule,
	accumulated *rules.Context,
) []Candidate {
	in := variantInput{
		day:       day,
		month:     month,
		year:      year,
		available: available,
		shifts:    workingShifts,
		ruleset:   ruleset,
		ctx:       accumulated,
	}

	var candidates []Candidate
	seen := make(map[string]bool)
	add := func(c Candidate, ok bool) {
		if !ok || len(c.Assignments) == 0 {
			return
		}
		sig := c.signature()
		if seen[sig] {
			return
		}
		seen[sig] = true
		candidates = append(candidates, c)
	}

	add(ruleAwareVariant(in))
	add(rotationVariant(in, false))
	add(rotationVariant(in, true))
	add(splitVariant(in))
	add(mixedVariant(in))
	for _, c := range singleShiftVariants(in) {
		add(c, true)
	}
	add(minimalStaffingVariant(in))
	add(alternatingVariant(in))

	return candidates
}

// ruleAwareVariant builds the primary candidate: employees are ranked by a
// priority score derived from the enabled rules, the top scorers work, the
// rest get the day off, and staffing floors/caps are patched up afterwards.
func ruleAwareVariant(in variantInput) (Candidate, bool) {
	if len(in.available) == 0 || len(in.shifts) == 0 {
		return Candidate{}, false
	}

	limit := consecutiveLimit(in.ruleset)
	weekday := model.DateOf(in.day, in.month, in.year).Weekday()
	requiredDay := false
	for _, rule := range in.ruleset {
		if r, ok := rule.(*rules.RequiredWorkDays); ok && r.AppliesTo(weekday) {
			requiredDay = true
			break
		}
	}

	type ranked struct {
		emp     model.Employee
		score   int
		canWork bool
	}
	rankings := make([]ranked, 0, len(in.available))
	notAtLimit := 0
	for _, emp := range in.available {
		canWork := consecutiveWorkDays(in.ctx, emp.ID, in.day) < limit
		score := 0
		if canWork {
			score += 10
			notAtLimit++
		}
		if requiredDay && canWork {
			score += 5
		}
		rankings = append(rankings, ranked{emp: emp, score: score, canWork: canWork})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].score > rankings[j].score
	})

	headcount := len(in.available)
	lower := (headcount*3 + 9) / 10 // 30% of headcount, rounded up
	upper := headcount
	for _, rule := range in.ruleset {
		switch r := rule.(type) {
		case *rules.MinEmployeesPerShift:
			if r.MinEmployees() > lower {
				lower = r.MinEmployees()
			}
		case *rules.CoverageByDay:
			if r.MinEmployees() > lower {
				lower = r.MinEmployees()
			}
		case *rules.MaxEmployeesPerShift:
			if r.MaxEmployees() < upper {
				upper = r.MaxEmployees()
			}
		}
	}
	working := clamp(notAtLimit, lower, upper)
	if working > headcount {
		working = headcount
	}

	assignments := make(map[string]string, headcount)
	assigned := 0
	for _, rk := range rankings {
		if assigned < working && rk.canWork {
			assignments[rk.emp.ID] = in.shifts[assigned%len(in.shifts)].ID
			assigned++
		} else {
			assignments[rk.emp.ID] = model.DayOffShiftID
		}
	}
	// If too few employees could work, top up from the rest of the ranking
	for _, rk := range rankings {
		if assigned >= working {
			break
		}
		if assignments[rk.emp.ID] == model.DayOffShiftID {
			assignments[rk.emp.ID] = in.shifts[assigned%len(in.shifts)].ID
			assigned++
		}
	}

	adjustForStaffingRules(assignments, in)

	return Candidate{Assignments: assignments, Strategy: StrategyRuleAware}, true
}

// adjustForStaffingRules patches the rule-aware assignment so that min/max
// employees-per-shift rules hold where possible, moving employees between
// the day-off shift and the affected working shifts
func adjustForStaffingRules(assignments map[string]string, in variantInput) {
	for _, rule := range in.ruleset {
		switch r := rule.(type) {
		case *rules.MinEmployeesPerShift:
			scoped := r.ShiftIDs()
			if len(scoped) == 0 {
				for _, s := range in.shifts {
					scoped = append(scoped, s.ID)
				}
			}
			count := countAssigned(assignments, scoped)
			for i := 0; count < r.MinEmployees(); i++ {
				empID, ok := anyAssignedTo(assignments, model.DayOffShiftID)
				if !ok {
					break
				}
				assignments[empID] = scoped[i%len(scoped)]
				count++
			}
		case *rules.MaxEmployeesPerShift:
			working := workingCount(assignments, in.shifts)
			for working > r.MaxEmployees() {
				empID, ok := anyWorking(assignments, in.shifts)
				if !ok {
					break
				}
				assignments[empID] = model.DayOffShiftID
				working--
			}
		}
	}
}

// rotationVariant rotates employees across the working shifts in order,
// optionally mixing the day-off shift into the rotation
func rotationVariant(in variantInput, withDayOff bool) (Candidate, bool) {
	if len(in.available) == 0 || len(in.shifts) == 0 {
		return Candidate{}, false
	}

	shiftIDs := make([]string, 0, len(in.shifts)+1)
	for _, s := range in.shifts {
		shiftIDs = append(shiftIDs, s.ID)
	}
	if withDayOff {
		shiftIDs = append(shiftIDs, model.DayOffShiftID)
	}

	assignments := make(map[string]string, len(in.available))
	for i, emp := range in.available {
		assignments[emp.ID] = shiftIDs[i%len(shiftIDs)]
	}

	strategy := StrategyRotation
	if withDayOff {
		strategy = StrategyRotationWithOff
	}
	return Candidate{Assignments: assignments, Strategy: strategy}, true
}

// splitVariant sends the first half of the employees to the first shift
// and the rest to the second
func splitVariant(in variantInput) (Candidate, bool) {
	if len(in.shifts) < 2 || len(in.available) < 2 {
		return Candidate{}, false
	}

	half := len(in.available) / 2
	assignments := make(map[string]string, len(in.available))
	for i, emp := range in.available {
		if i < half {
			assignments[emp.ID] = in.shifts[0].ID
		} else {
			assignments[emp.ID] = in.shifts[1].ID
		}
	}
	return Candidate{Assignments: assignments, Strategy: StrategySplit}, true
}

// mixedVariant puts the first 70% (rounded up) on rotating working shifts
// and gives the remainder the day off
func mixedVariant(in variantInput) (Candidate, bool) {
	if len(in.shifts) == 0 || len(in.available) < 2 {
		return Candidate{}, false
	}

	working := (len(in.available)*7 + 9) / 10
	assignments := make(map[string]string, len(in.available))
	for i, emp := range in.available {
		if i < working {
			assignments[emp.ID] = in.shifts[i%len(in.shifts)].ID
		} else {
			assignments[emp.ID] = model.DayOffShiftID
		}
	}
	return Candidate{Assignments: assignments, Strategy: StrategyMixed}, true
}

// singleShiftVariants puts everyone on the same shift, one candidate per
// working shift. Only sensible for very small teams.
func singleShiftVariants(in variantInput) []Candidate {
	if len(in.available) == 0 || len(in.available) > 4 {
		return nil
	}

	candidates := make([]Candidate, 0, len(in.shifts))
	for _, shift := range in.shifts {
		assignments := make(map[string]string, len(in.available))
		for _, emp := range in.available {
			assignments[emp.ID] = shift.ID
		}
		candidates = append(candidates, Candidate{
			Assignments: assignments,
			Strategy:    StrategySingleShift,
		})
	}
	return candidates
}

// minimalStaffingVariant assigns exactly one employee per working shift and
// leaves the remainder unassigned for the day
func minimalStaffingVariant(in variantInput) (Candidate, bool) {
	if len(in.shifts) == 0 || len(in.available) < len(in.shifts) {
		return Candidate{}, false
	}

	assignments := make(map[string]string, len(in.shifts))
	for i, shift := range in.shifts {
		assignments[in.available[i].ID] = shift.ID
	}
	return Candidate{Assignments: assignments, Strategy: StrategyMinimalStaffing}, true
}

// alternatingVariant alternates employees between the first two shifts
func alternatingVariant(in variantInput) (Candidate, bool) {
	if len(in.shifts) < 2 || len(in.available) < 3 {
		return Candidate{}, false
	}

	assignments := make(map[string]string, len(in.available))
	for i, emp := range in.available {
		assignments[emp.ID] = in.shifts[i%2].ID
	}
	return Candidate{Assignments: assignments, Strategy: StrategyAlternating}, true
}

// consecutiveLimit returns the configured max-consecutive-work-days limit,
// or the default when no such rule is enabled
func consecutiveLimit(ruleset []rules.Rule) int {
	for _, rule := range ruleset {
		if r, ok := rule.(*rules.MaxConsecutiveWorkDays); ok {
			return r.MaxDays()
		}
	}
	return DefaultConsecutiveLimit
}

// consecutiveWorkDays counts the uninterrupted run of working days ending
// the day before the given one, scanning backward until a gap or day off
func consecutiveWorkDays(ctx *rules.Context, employeeID string, day int) int {
	count := 0
	for d := day - 1; d >= 1; d-- {
		if !ctx.IsWorkingOn(employeeID, d) {
			break
		}
		count++
	}
	return count
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func countAssigned(assignments map[string]string, shiftIDs []string) int {
	count := 0
	for _, shiftID := range assignments {
		for _, scoped := range shiftIDs {
			if shiftID == scoped {
				count++
				break
			}
		}
	}
	return count
}

func workingCount(assignments map[string]string, shifts []model.ShiftType) int {
	working := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		working[s.ID] = true
	}
	count := 0
	for _, shiftID := range assignments {
		if working[shiftID] {
			count++
		}
	}
	return count
}

// anyAssignedTo returns the lowest-id employee on the given shift, for
// deterministic post-adjustment
func anyAssignedTo(assignments map[string]string, shiftID string) (string, bool) {
	best := ""
	for empID, assigned := range assignments {
		if assigned != shiftID {
			continue
		}
		if best == "" || empID < best {
			best = empID
		}
	}
	return best, best != ""
}

func anyWorking(assignments map[string]string, shifts []model.ShiftType) (string, bool) {
	working := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		working[s.ID] = true
	}
	best := ""
	for empID, shiftID := range assignments {
		if !working[shiftID] {
			continue
		}
		if best == "" || empID < best {
			best = empID
		}
	}
	return best, best != ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
