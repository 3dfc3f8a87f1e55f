// Package accounting derives balance-sheet views from the ledgers. Sheets are
// reporting artifacts: the ledgers stay the only source of truth for
// balances.
package accounting

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
)

// Exclusion is a set of agent ids whose counterparty positions are left out
// of a contribution. Consolidation uses it to net out claims between the
// agents being consolidated.
type Exclusion map[int]struct{}

// Exclude builds an exclusion set from agent ids.
func Exclude(ids ...int) Exclusion {
	e := make(Exclusion, len(ids))
	for _, id := range ids {
		e[id] = struct{}{}
	}
	return e
}

// Excludes reports whether the id is in the set. A nil set excludes nothing.
func (e Exclusion) Excludes(id int) bool {
	_, ok := e[id]
	return ok
}

// Contribution is one labelled line of a balance sheet.
type Contribution struct {
	Label string
	Value float64
}

// Contributor produces one balance-sheet line, ignoring positions against
// excluded counterparties.
type Contributor func(except Exclusion) Contribution

// Owner is an agent that can report its assets and liabilities.
type Owner interface {
	AgentID() int
	Describe() string
	Assets(except Exclusion) []Contribution
	Liabilities(except Exclusion) []Contribution
}

// BalanceSheet is a point-in-time snapshot of an owner's (or a group's)
// assets and liabilities.
type BalanceSheet struct {
	Descriptor  string
	Assets      []Contribution
	Liabilities []Contribution
}

// FromOwner snapshots a single agent.
func FromOwner(owner Owner) *BalanceSheet {
	return &BalanceSheet{
		Descriptor:  owner.Describe(),
		Assets:      owner.Assets(nil),
		Liabilities: owner.Liabilities(nil),
	}
}

// Consolidated snapshots a group of agents as one sheet, netting out every
// position the members hold against each other. Lines with the same label
// are merged in first-seen order.
func Consolidated(descriptor string, owners []Owner) *BalanceSheet {
	ids := make([]int, len(owners))
	for i, o := range owners {
		ids[i] = o.AgentID()
	}
	except := Exclude(ids...)

	sheet := &BalanceSheet{Descriptor: descriptor}
	for _, o := range owners {
		sheet.Assets = merge(sheet.Assets, o.Assets(except))
		sheet.Liabilities = merge(sheet.Liabilities, o.Liabilities(except))
	}
	return sheet
}

func merge(into, lines []Contribution) []Contribution {
	for _, line := range lines {
		found := false
		for i := range into {
			if into[i].Label == line.Label {
				into[i].Value += line.Value
				found = true
				break
			}
		}
		if !found {
			into = append(into, line)
		}
	}
	return into
}

func (s *BalanceSheet) TotalAssets() float64 {
	return total(s.Assets)
}

func (s *BalanceSheet) TotalLiabilities() float64 {
	return total(s.Liabilities)
}

// Equity is the residual claim: assets less liabilities.
func (s *BalanceSheet) Equity() float64 {
	return s.TotalAssets() - s.TotalLiabilities()
}

func total(lines []Contribution) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.Value
	}
	return sum
}

// String renders the sheet as a two-sided table with equity shown as the
// balancing liability line.
func (s *BalanceSheet) String() string {
	var sb strings.Builder
	if s.Descriptor != "" {
		sb.WriteString(s.Descriptor)
		sb.WriteByte('\n')
	}

	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Assets\tValue\tLiabilities\tValue")

	liabilities := append(append([]Contribution(nil), s.Liabilities...),
		Contribution{Label: "equity", Value: round2(s.Equity())})

	rows := len(s.Assets)
	if len(liabilities) > rows {
		rows = len(liabilities)
	}
	for i := 0; i < rows; i++ {
		var aLabel, aValue, lLabel, lValue string
		if i < len(s.Assets) {
			aLabel = s.Assets[i].Label
			aValue = fmt.Sprintf("%.2f", round2(s.Assets[i].Value))
		}
		if i < len(liabilities) {
			lLabel = liabilities[i].Label
			lValue = fmt.Sprintf("%.2f", round2(liabilities[i].Value))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", aLabel, aValue, lLabel, lValue)
	}
	fmt.Fprintf(w, "Sum\t%.2f\tSum\t%.2f\n",
		round2(s.TotalAssets()), round2(s.TotalLiabilities()+s.Equity()))
	w.Flush()

	return sb.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
