package scheduler

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
)

// dayScore holds one candidate's evaluation result. Leading is the length
// of the unbroken run of satisfied rules from the top of the priority
// order; Total counts all satisfied rules regardless of position.
type dayScore struct {
	candidate Candidate
	leading   int
	total     int
}

// betterThan is the scorer's total order: higher leading run wins, then
// higher total, then the rule-aware candidate over any other. Candidates
// tied on all three keep their generation order.
func (s dayScore) betterThan(other dayScore) bool {
	if s.leading != other.leading {
		return s.leading > other.leading
	}
	if s.total != other.total {
		return s.total > other.total
	}
	return s.candidate.Strategy == StrategyRuleAware &&
		other.candidate.Strategy != StrategyRuleAware
}

// scoreInput is the fixed context shared by all candidates of one day
type scoreInput struct {
	day         int
	month       int
	year        int
	accumulated []model.ScheduleEntry
	employees   []model.Employee
	shifts      []model.ShiftType
	ruleset     []rules.Rule
	dayOffs     []model.DayOffRequest
	logger      *zap.Logger
}

// pickBest scores every candidate against the schedule built so far plus
// that candidate's entries, and returns the winner. Scoring one candidate
// is independent of the others, so candidates are evaluated concurrently;
// the comparator is a total order, so the result is deterministic.
func pickBest(candidates []Candidate, in scoreInput) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	scores := make([]dayScore, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate Candidate) {
			defer wg.Done()
			scores[i] = scoreCandidate(candidate, in)
		}(i, candidate)
	}
	wg.Wait()

	best := scores[0]
	for _, score := range scores[1:] {
		if score.betterThan(best) {
			best = score
		}
	}
	return best.candidate, true
}

// scoreCandidate appends the candidate to the accumulated schedule and runs
// every enabled rule in priority order. The leading score counts how many
// top-priority rules pass before the first failure; one failed rule caps it
// there no matter how the rest fare.
func scoreCandidate(candidate Candidate, in scoreInput) dayScore {
	temp := make([]model.ScheduleEntry, 0, len(in.accumulated)+len(candidate.Assignments))
	temp = append(temp, in.accumulated...)
	temp = append(temp, candidate.Entries(in.day, in.month, in.year)...)

	ctx := rules.NewContext(temp, in.employees, in.shifts, in.month, in.year, in.dayOffs)

	score := dayScore{candidate: candidate}
	leadingIntact := true
	for _, rule := range in.ruleset {
		satisfied := len(rules.Evaluate(rule, ctx, in.logger)) == 0
		if satisfied {
			score.total++
			if leadingIntact {
				score.leading++
			}
		} else {
			leadingIntact = false
		}
	}
	return score
}
