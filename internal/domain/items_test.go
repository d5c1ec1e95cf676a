package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblem_StatusDefaults(t *testing.T) {
	t.Run("explicit status", func(t *testing.T) {
		p := &Problem{Status: Ptr(StatusInProgress)}
		assert.Equal(t, StatusInProgress, p.StatusText())
	})

	t.Run("is_completed fallback", func(t *testing.T) {
		p := &Problem{IsCompleted: Ptr(true)}
		assert.Equal(t, StatusDone, p.StatusText())
	})

	t.Run("absent", func(t *testing.T) {
		assert.Equal(t, StatusNotStarted, (&Problem{}).StatusText())
	})
}

func TestProblem_CloneIsIndependent(t *testing.T) {
	orig := &Problem{ID: 42, Status: Ptr(StatusNotStarted), Tags: StringList{"array"}}
	clone := orig.Clone().(*Problem)

	*clone.Status = StatusDone
	clone.Tags[0] = "changed"

	assert.Equal(t, StatusNotStarted, orig.StatusText())
	assert.Equal(t, "array", orig.Tags[0])
}

func TestDifficultyClass(t *testing.T) {
	assert.Equal(t, ClassEasy, DifficultyClass(DifficultyEasy))
	assert.Equal(t, ClassEasy, DifficultyClass("Easy"))
	assert.Equal(t, ClassMedium, DifficultyClass(DifficultyMedium))
	assert.Equal(t, ClassHard, DifficultyClass("Hard"))
	assert.Equal(t, ClassMedium, DifficultyClass(""), "absent difficulty renders as the middle class")
	assert.Equal(t, ClassMedium, DifficultyClass("???"))
}

func TestGoal_Percent(t *testing.T) {
	assert.Equal(t, 78, (&Goal{TargetValue: Ptr(100.0), CurrentValue: Ptr(78.0)}).Percent())
	assert.Equal(t, 100, (&Goal{TargetValue: Ptr(10.0), CurrentValue: Ptr(30.0)}).Percent())
	assert.Equal(t, 0, (&Goal{}).Percent())
}

func TestResume_Defaults(t *testing.T) {
	r := &Resume{ID: 1, CreatedAt: Ptr("2024-01-01")}
	assert.Equal(t, "", r.Owner())
	assert.Equal(t, "2024-01-01", r.Updated())

	r.PersonalInfo = map[string]any{"name": "Lin"}
	assert.Equal(t, "Lin", r.Owner())
}
