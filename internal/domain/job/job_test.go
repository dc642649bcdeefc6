package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:  {StatusActive, StatusClosed},
		StatusActive: {StatusPaused, StatusClosed, StatusFilled},
		StatusPaused: {StatusActive, StatusClosed},
		StatusClosed: {},
		StatusFilled: {},
	}
	all := []Status{StatusDraft, StatusActive, StatusPaused, StatusClosed, StatusFilled}

	for from, tos := range allowed {
		legal := make(map[Status]bool)
		for _, to := range tos {
			legal[to] = true
		}
		for _, to := range all {
			assert.Equal(t, legal[to], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(StatusClosed))
	assert.True(t, Terminal(StatusFilled))
	assert.False(t, Terminal(StatusDraft))
	assert.False(t, Terminal(StatusActive))
	assert.False(t, Terminal(StatusPaused))
	assert.False(t, Terminal(Status("nope")))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusDraft))
	assert.False(t, ValidStatus(Status("archived")))
}

func TestValidEmploymentType(t *testing.T) {
	for _, et := range []string{FullTime, PartTime, Contract, Freelance, Internship} {
		assert.True(t, ValidEmploymentType(et))
	}
	assert.False(t, ValidEmploymentType("gig"))
	assert.False(t, ValidEmploymentType(""))
}

func TestFilterMatch(t *testing.T) {
	p := Posting{
		Title:          "Backend dev",
		Status:         StatusActive,
		EmploymentType: Contract,
		Location:       "Nairobi, Kenya",
		RemoteWork:     true,
		SalaryMin:      100,
		SalaryMax:      200,
		PostedBy:       "c1",
	}

	assert.True(t, Filter{}.Match(p))
	assert.True(t, Filter{Status: StatusActive, EmploymentType: Contract}.Match(p))
	assert.True(t, Filter{Location: "nairobi"}.Match(p), "location matching is case-insensitive substring")
	assert.False(t, Filter{Status: StatusClosed}.Match(p))
	assert.False(t, Filter{Location: "Lagos"}.Match(p))

	remote := false
	assert.False(t, Filter{Remote: &remote}.Match(p))

	assert.True(t, Filter{SalaryAtLeast: 150}.Match(p))
	assert.False(t, Filter{SalaryAtLeast: 250}.Match(p))
	assert.True(t, Filter{SalaryAtMost: 150}.Match(p))
	assert.False(t, Filter{SalaryAtMost: 50}.Match(p))
}
