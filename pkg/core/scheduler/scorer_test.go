package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

func testScoreInput(t *testing.T, records ...model.RuleRecord) scoreInput {
	t.Helper()
	return scoreInput{
		day:       1,
		month:     testMonth,
		year:      testYear,
		employees: testEmployees(3),
		shifts:    testShifts(),
		ruleset:   loadRules(t, records...),
		logger:    zap.NewNop(),
	}
}

// Two candidates each satisfy exactly one of two rules. Whichever rule
// holds the higher priority decides the winner, and flipping the
// priorities flips the outcome.
func TestPickBest_PriorityOrderDecides(t *testing.T) {
	fullStaff := Candidate{
		Strategy: StrategyRotation,
		Assignments: map[string]string{
			"a1": "day",
			"b1": "day",
			"c1": model.DayOffShiftID,
		},
	}
	skeletonStaff := Candidate{
		Strategy: StrategyMixed,
		Assignments: map[string]string{
			"a1": "day",
			"b1": model.DayOffShiftID,
			"c1": model.DayOffShiftID,
		},
	}
	candidates := []Candidate{fullStaff, skeletonStaff}

	minRule := ruleRecord("min_employees_per_shift", 1, map[string]any{"min_employees": 2})
	maxRule := ruleRecord("max_employees_per_shift", 2, map[string]any{"max_employees": 1})

	winner, ok := pickBest(candidates, testScoreInput(t, minRule, maxRule))
	require.True(t, ok)
	assert.Equal(t, StrategyRotation, winner.Strategy)

	minRule.Priority = 2
	maxRule.Priority = 1

	winner, ok = pickBest(candidates, testScoreInput(t, minRule, maxRule))
	require.True(t, ok)
	assert.Equal(t, StrategyMixed, winner.Strategy)
}

func TestPickBest_NoCandidates(t *testing.T) {
	_, ok := pickBest(nil, testScoreInput(t))
	assert.False(t, ok)
}

func TestScoreCandidate_LeadingRunStopsAtFirstFailure(t *testing.T) {
	// One working employee: fails the floor of 2 but passes the cap of 2
	// and the manager rule (nobody needs managing with min 0)
	candidate := Candidate{
		Strategy: StrategyMixed,
		Assignments: map[string]string{
			"a1": "day",
			"b1": model.DayOffShiftID,
			"c1": model.DayOffShiftID,
		},
	}

	in := testScoreInput(t,
		ruleRecord("min_employees_per_shift", 1, map[string]any{"min_employees": 2}),
		ruleRecord("max_employees_per_shift", 2, map[string]any{"max_employees": 2}),
		ruleRecord("manager_requirements", 3, map[string]any{"min_managers_per_day": 0}),
	)

	score := scoreCandidate(candidate, in)
	assert.Equal(t, 0, score.leading)
	assert.Equal(t, 2, score.total)
}

func TestBetterThan_TotalBreaksLeadingTies(t *testing.T) {
	a := dayScore{leading: 1, total: 3}
	b := dayScore{leading: 1, total: 2}

	assert.True(t, a.betterThan(b))
	assert.False(t, b.betterThan(a))
}

func TestBetterThan_RuleAwareBreaksFullTies(t *testing.T) {
	ruleAware := dayScore{
		candidate: Candidate{Strategy: StrategyRuleAware},
		leading:   2,
		total:     2,
	}
	rotation := dayScore{
		candidate: Candidate{Strategy: StrategyRotation},
		leading:   2,
		total:     2,
	}

	assert.True(t, ruleAware.betterThan(rotation))
	assert.False(t, rotation.betterThan(ruleAware))
}

func TestPickBest_Deterministic(t *testing.T) {
	candidates := DayVariants(1, testMonth, testYear,
		testEmployees(4), workingOnly(testShifts()), nil, emptyContext())
	require.NotEmpty(t, candidates)

	in := testScoreInput(t,
		ruleRecord("min_employees_per_shift", 1, map[string]any{"min_employees": 2}))
	in.employees = testEmployees(4)

	first, ok := pickBest(candidates, in)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := pickBest(candidates, in)
		require.True(t, ok)
		assert.Equal(t, first.signature(), again.signature())
	}
}
