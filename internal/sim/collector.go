package sim

import "sort"

// Reporter samples one named statistic from the model.
type Reporter func(*Model) float64

// NamedReporter pairs a reporter with its series name; the collector keeps
// series in registration order.
type NamedReporter struct {
	Name string
	Fn   Reporter
}

// DataCollector samples reporters into in-memory series, indexed by the day
// each sample was taken.
type DataCollector struct {
	reporters []NamedReporter
	days      []int
	series    map[string][]float64
}

func NewDataCollector(reporters []NamedReporter) *DataCollector {
	c := &DataCollector{
		reporters: reporters,
		series:    make(map[string][]float64, len(reporters)),
	}
	for _, r := range reporters {
		c.series[r.Name] = nil
	}
	return c
}

// Collect samples every reporter at the model's current day.
func (c *DataCollector) Collect(m *Model) {
	c.days = append(c.days, m.Calendar.Day())
	for _, r := range c.reporters {
		c.series[r.Name] = append(c.series[r.Name], r.Fn(m))
	}
}

// Days are the sample indices, in collection order.
func (c *DataCollector) Days() []int { return c.days }

// Series returns the collected samples for the named reporter.
func (c *DataCollector) Series(name string) []float64 { return c.series[name] }

// Names lists the reporters in registration order.
func (c *DataCollector) Names() []string {
	names := make([]string, len(c.reporters))
	for i, r := range c.reporters {
		names[i] = r.Name
	}
	return names
}

// DefaultReporters covers the headline statistics of a run.
func DefaultReporters() []NamedReporter {
	return []NamedReporter{
		{Name: "employed", Fn: CountEmployed},
		{Name: "money_supply", Fn: (*Model).MoneySupply},
		{Name: "household_liquidity", Fn: HouseholdLiquidity},
		{Name: "avg_goods_price", Fn: AverageGoodsPrice},
		{Name: "avg_wage_rate", Fn: AverageWageRate},
		{Name: "gini", Fn: Gini},
	}
}

func CountEmployed(m *Model) float64 {
	var n float64
	for _, h := range m.Households {
		if h.Employed() {
			n++
		}
	}
	return n
}

func HouseholdLiquidity(m *Model) float64 {
	var total float64
	for _, h := range m.Households {
		total += h.DepositBalance()
	}
	return total
}

func AverageGoodsPrice(m *Model) float64 {
	if len(m.Firms) == 0 {
		return 0
	}
	var total float64
	for _, f := range m.Firms {
		total += f.GoodsPrice()
	}
	return total / float64(len(m.Firms))
}

func AverageWageRate(m *Model) float64 {
	if len(m.Firms) == 0 {
		return 0
	}
	var total float64
	for _, f := range m.Firms {
		total += f.WageRate()
	}
	return total / float64(len(m.Firms))
}

// Gini computes the Gini coefficient of household liquidity, zero when
// there is no money to be unequal about.
func Gini(m *Model) float64 {
	balances := make([]float64, 0, len(m.Households))
	var sum float64
	for _, h := range m.Households {
		balances = append(balances, h.DepositBalance())
		sum += h.DepositBalance()
	}
	n := len(balances)
	if n == 0 || sum == 0 {
		return 0
	}
	sort.Float64s(balances)
	var b float64
	for i, x := range balances {
		b += x * float64(n-i)
	}
	b /= float64(n) * sum
	return 1 + 1/float64(n) - 2*b
}
