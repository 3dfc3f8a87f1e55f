package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_DerivedPeriods(t *testing.T) {
	cal := NewCalendar(21)

	assert.Equal(t, 0, cal.Day())
	assert.Equal(t, 252, cal.DaysInYear())
	assert.Equal(t, 0, cal.Month())
	assert.Equal(t, 0, cal.Year())

	for i := 0; i < 300; i++ {
		cal.Advance()
	}

	assert.Equal(t, 300, cal.Day())
	assert.Equal(t, 1, cal.Year())
	assert.Equal(t, 48, cal.YearDay())
	assert.Equal(t, 2, cal.Month())
	assert.Equal(t, 6, cal.MonthDay())
	assert.Equal(t, 252, cal.StartOfThisYear())
	assert.Equal(t, 294, cal.StartOfThisMonth())
	assert.Equal(t, 504, cal.StartOfNextYear())
	assert.Equal(t, 503, cal.EndOfThisYear())
	assert.Equal(t, 314, cal.EndOfThisMonth())
}

func TestCalendar_MonthBoundaries(t *testing.T) {
	cal := NewCalendar(21)

	assert.True(t, cal.IsMonthStart())
	assert.False(t, cal.IsMonthEnd())

	for i := 0; i < 20; i++ {
		cal.Advance()
	}
	assert.Equal(t, 20, cal.Day())
	assert.False(t, cal.IsMonthStart())
	assert.True(t, cal.IsMonthEnd())

	cal.Advance()
	assert.True(t, cal.IsMonthStart())
	assert.False(t, cal.IsMonthEnd())
}

func TestCalendar_TwelveEqualMonths(t *testing.T) {
	for _, daysInMonth := range []int{21, 20, 8} {
		cal := NewCalendar(daysInMonth)
		assert.Equal(t, 12*daysInMonth, cal.DaysInYear())

		starts := 0
		for i := 0; i < cal.DaysInYear(); i++ {
			if cal.IsMonthStart() {
				starts++
			}
			cal.Advance()
		}
		assert.Equal(t, 12, starts)
		assert.Equal(t, 1, cal.Year())
	}
}
