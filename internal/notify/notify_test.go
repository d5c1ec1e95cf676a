package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func createTestCenter() (*Center, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(3*time.Second, WithClock(clock.Now)), clock
}

func TestNotify_Stacks(t *testing.T) {
	c, clock := createTestCenter()

	first := c.Notify("同步任务已启动", SeverityInfo)
	clock.Advance(time.Second)
	second := c.Notify("同步任务已启动", SeverityInfo)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, clock.Now().Add(3*time.Second), second.ExpiresAt)

	active := c.Active(clock.Now())
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestNotify_Expiry(t *testing.T) {
	c, clock := createTestCenter()
	first := c.Notify("简历已创建", SeveritySuccess)
	clock.Advance(2 * time.Second)
	c.Notify("删除失败", SeverityError)

	clock.Advance(time.Second)
	active := c.Active(clock.Now())
	require.Len(t, active, 1)
	assert.Equal(t, "删除失败", active[0].Message)

	assert.Equal(t, 1, c.Prune(clock.Now()))
	assert.False(t, c.Expire(first.ID))
}

func TestExpire(t *testing.T) {
	c, clock := createTestCenter()
	a := c.Notify("a", SeverityInfo)
	b := c.Notify("b", SeverityInfo)

	assert.True(t, c.Expire(a.ID))
	assert.False(t, c.Expire(a.ID))

	active := c.Active(clock.Now())
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)
}

func TestModal(t *testing.T) {
	c, _ := createTestCenter()
	assert.Nil(t, c.Modal())

	c.ShowModal("Two Sum", "Given an array")
	c.ShowModal("版本历史", "v1.0")
	m := c.Modal()
	require.NotNil(t, m)
	assert.Equal(t, "版本历史", m.Title)

	m.Title = "changed"
	assert.Equal(t, "版本历史", c.Modal().Title)

	c.CloseModal()
	assert.Nil(t, c.Modal())
	c.CloseModal()
}
