package schedule

// Calendar is the simulation clock. Days advance one at a time; months and
// years are derived from a fixed days-per-month, so every year has twelve
// equal months. Day 0 is the first day of month 0 of year 0.
type Calendar struct {
	daysInMonth int
	steps       int
}

func NewCalendar(daysInMonth int) *Calendar {
	if daysInMonth < 1 {
		daysInMonth = 1
	}
	return &Calendar{daysInMonth: daysInMonth}
}

func (c *Calendar) Day() int {
	return c.steps
}

func (c *Calendar) DaysInMonth() int {
	return c.daysInMonth
}

func (c *Calendar) DaysInYear() int {
	return c.daysInMonth * 12
}

func (c *Calendar) Month() int {
	return c.YearDay() / c.daysInMonth
}

func (c *Calendar) Year() int {
	return c.steps / c.DaysInYear()
}

func (c *Calendar) YearDay() int {
	return c.steps % c.DaysInYear()
}

func (c *Calendar) MonthDay() int {
	return c.steps % c.daysInMonth
}

func (c *Calendar) StartOfThisYear() int {
	return c.Year() * c.DaysInYear()
}

func (c *Calendar) StartOfThisMonth() int {
	return c.StartOfThisYear() + c.Month()*c.daysInMonth
}

func (c *Calendar) StartOfNextYear() int {
	return c.StartOfThisYear() + c.DaysInYear()
}

func (c *Calendar) EndOfThisYear() int {
	return c.StartOfNextYear() - 1
}

func (c *Calendar) EndOfThisMonth() int {
	return c.StartOfThisMonth() + c.daysInMonth - 1
}

// IsMonthStart reports whether the current day opens a month (day 0, 21, 42,
// ... for a 21-day month).
func (c *Calendar) IsMonthStart() bool {
	return c.steps%c.daysInMonth == 0
}

// IsMonthEnd reports whether the current day closes a month (day 20, 41, ...).
func (c *Calendar) IsMonthEnd() bool {
	return (c.steps+1)%c.daysInMonth == 0
}

// Advance moves the clock forward by exactly one day.
func (c *Calendar) Advance() {
	c.steps++
}
