// Package sim wires the ledgers, markets, and agents into a runnable model
// and drives them through the fixed daily schedule.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"econsim/internal/accounting"
	"econsim/internal/agent"
	"econsim/internal/config"
	"econsim/internal/ledger"
	"econsim/internal/market"
	"econsim/internal/schedule"
)

// policyRates exposes the central bank's deposit rate to the bond ledger.
// The ledger is built before the central bank, so the link is set afterwards.
type policyRates struct {
	cb *agent.CentralBank
}

func (p *policyRates) DepositRate() float64 {
	if p.cb == nil {
		return 0
	}
	return p.cb.DepositRate()
}

// Depositor is any agent a payment can be dropped into.
type Depositor interface {
	HasDepositAccount() bool
	DepositAccountNumber() int
}

// Model holds the full simulated economy.
type Model struct {
	RunID uuid.UUID

	Calendar *schedule.Calendar
	World    *agent.World

	CentralBank *agent.CentralBank
	Government  *agent.Government
	Banks       []*agent.CommercialBank
	Firms       []*agent.Firm
	Households  []*agent.Household
	Registrar   *agent.StockRegistrar

	rng       *rand.Rand
	real      bool
	counter   int
	log       *slog.Logger
	scheduler *Scheduler
	collector *DataCollector
}

// New builds a model from the configuration. Seed zero still yields a
// deterministic run; vary the seed for different draws.
func New(cfg config.Config, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cal := schedule.NewCalendar(cfg.DaysInMonth)
	exchange := market.NewBondExchange(cfg.PriceWindow)
	rates := &policyRates{}
	bonds := ledger.NewBondLedger(cal, exchange, rates, cfg.CouponFrequency)
	exchange.SetHoldings(bonds)

	world := &agent.World{
		Calendar:  cal,
		Deposits:  ledger.NewDepositLedger(cal),
		Loans:     ledger.NewLoanLedger(cal),
		Bonds:     bonds,
		Exchange:  exchange,
		Interbank: market.NewInterBankMarket(cfg.PriceWindow),
	}

	runID := uuid.New()
	logger = logger.With("run_id", runID.String())
	m := &Model{
		RunID:    runID,
		Calendar: cal,
		World:    world,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		real:     cfg.Real,
		log:      logger,
	}

	m.CentralBank = agent.NewCentralBank(world, m.NextID(), cfg.TargetRate, cfg.LendingSpread)
	rates.cb = m.CentralBank

	m.Government = agent.NewGovernment(world, m.NextID())
	if err := m.Government.OpenAccountAtCentralBank(m.CentralBank); err != nil {
		return nil, fmt.Errorf("opening treasury account: %w", err)
	}
	if _, err := m.Government.OpenBorrowingAccount(m.CentralBank); err != nil {
		return nil, fmt.Errorf("opening treasury borrowing account: %w", err)
	}

	for i := 0; i < cfg.NumBanks; i++ {
		bank := agent.NewCommercialBank(world, m.NextID())
		if err := bank.RegisterWithCentralBank(m.CentralBank); err != nil {
			return nil, fmt.Errorf("registering bank %d: %w", bank.AgentID(), err)
		}
		m.Banks = append(m.Banks, bank)
	}

	for i := 0; i < cfg.NumFirms; i++ {
		m.Firms = append(m.Firms, agent.NewFirm(world, m.NextID(), cfg.GoodsPrice, cfg.WageRate, m.rng))
	}
	for i := 0; i < cfg.NumHouseholds; i++ {
		m.Households = append(m.Households, agent.NewHousehold(world, m.NextID()))
	}

	m.Registrar = agent.NewStockRegistrar(world, m.NextID(), m.Households)
	if _, err := m.Banks[0].OpenAccount(m.Registrar, 0); err != nil {
		return nil, fmt.Errorf("opening registrar account: %w", err)
	}

	m.scheduler = &Scheduler{model: m, log: logger}
	m.collector = NewDataCollector(DefaultReporters())
	return m, nil
}

// NextID hands out agent identifiers in construction order.
func (m *Model) NextID() int {
	id := m.counter
	m.counter++
	return id
}

func (m *Model) Collector() *DataCollector { return m.collector }

// RandomlyAllocateBanks opens a deposit account for each holder at a bank
// chosen uniformly at random.
func (m *Model) RandomlyAllocateBanks(holders ...agent.AccountHolder) error {
	for _, holder := range holders {
		bank := m.Banks[m.rng.Intn(len(m.Banks))]
		if _, err := bank.OpenAccount(holder, 0); err != nil {
			return err
		}
	}
	return nil
}

// HelicopterDrop has the government pay each recipient the given amount out
// of its unlimited treasury overdraft.
func (m *Model) HelicopterDrop(valuePerAgent float64, recipients ...Depositor) error {
	for _, r := range recipients {
		if !r.HasDepositAccount() {
			continue
		}
		if err := m.Government.Pay(r.DepositAccountNumber(), valuePerAgent); err != nil {
			return err
		}
	}
	return nil
}

// ShuffleHouseholds randomizes the household processing order, removing any
// first-mover advantage within a day.
func (m *Model) ShuffleHouseholds() {
	m.rng.Shuffle(len(m.Households), func(i, j int) {
		m.Households[i], m.Households[j] = m.Households[j], m.Households[i]
	})
}

// CalculateShareholdings imputes each household's stake in the firm sector
// from its current liquidity.
func (m *Model) CalculateShareholdings() ([]agent.Shareholding, float64) {
	holdings := make([]agent.Shareholding, 0, len(m.Households))
	var total float64
	for _, h := range m.Households {
		balance := h.DepositBalance()
		holdings = append(holdings, agent.Shareholding{Holder: h, Amount: balance})
		total += balance
	}
	return holdings, total
}

// MoneySupply is the non-bank private sector's deposit money.
func (m *Model) MoneySupply() float64 {
	var total float64
	for _, h := range m.Households {
		total += h.DepositBalance()
	}
	for _, f := range m.Firms {
		total += f.DepositBalance()
	}
	return total
}

// Agents lists every balance-sheet owner in the economy.
func (m *Model) Agents() []accounting.Owner {
	owners := []accounting.Owner{&m.CentralBank.Base, &m.Government.Base}
	for _, b := range m.Banks {
		owners = append(owners, &b.Base)
	}
	for _, f := range m.Firms {
		owners = append(owners, &f.Base)
	}
	for _, h := range m.Households {
		owners = append(owners, &h.Base)
	}
	owners = append(owners, &m.Registrar.Base)
	return owners
}

// ConsolidatedBalanceSheet nets the whole economy against itself.
func (m *Model) ConsolidatedBalanceSheet() *accounting.BalanceSheet {
	return accounting.Consolidated("economy", m.Agents())
}

// Step advances the model one day and samples the collector on month starts.
func (m *Model) Step() error {
	if err := m.scheduler.Step(); err != nil {
		return err
	}
	if m.Calendar.IsMonthStart() {
		m.collector.Collect(m)
	}
	return nil
}
