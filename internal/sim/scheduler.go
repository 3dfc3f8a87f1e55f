package sim

import (
	"fmt"
	"log/slog"

	"econsim/internal/agent"
	"econsim/internal/ledger"
)

// repayer is the borrower side of a loan the scheduler can call in.
type repayer interface {
	MakeLoanRepayment(account int, value float64) error
}

// payer pushes value into a deposit account.
type payer interface {
	Pay(toAccount int, value float64) error
}

// Scheduler drives the model through one day at a time, in the fixed order
// the underlying paper prescribes. Interest accrues before maturities are
// checked, coupons fall before revaluation, and behavior runs before the
// end-of-day interbank session. The order is load-bearing and must not
// change.
type Scheduler struct {
	model *Model
	log   *slog.Logger
}

func (s *Scheduler) Step() error {
	m := s.model
	day := m.Calendar.Day()

	// 1. Deposit interest, central bank first.
	m.CentralBank.PayInterest()
	for _, bank := range m.Banks {
		bank.PayInterest()
	}

	// 2. Loan interest on every loan.
	m.World.Loans.ApplyDailyInterest(nil)

	// 3. Loans due today are repaid in full by the borrower.
	if err := s.settleDueLoans(day); err != nil {
		return err
	}

	// 4. Coupons on everything outstanding, skipping today's issues.
	if m.World.Bonds.CouponDue(day) {
		if err := s.payCoupons(day); err != nil {
			return err
		}
	}

	// 5. Maturing bonds: principal repayment, then retirement.
	if err := s.retireMaturingBonds(day); err != nil {
		return err
	}

	// 6. Revalue what remains.
	m.World.Bonds.Recalculate()

	// 7. The real economy.
	if m.real {
		if err := s.runRealEconomy(); err != nil {
			return err
		}
	}

	// 8. End-of-day interbank session.
	if err := s.runInterbankSession(); err != nil {
		return err
	}

	// 9. Tomorrow.
	m.Calendar.Advance()
	return nil
}

func (s *Scheduler) settleDueLoans(day int) error {
	loans := s.model.World.Loans
	for _, id := range loans.LoansDue(day) {
		loan, err := loans.Get(id)
		if err != nil {
			return err
		}
		borrower, ok := loan.Issuer.(repayer)
		if !ok {
			return fmt.Errorf("loan %d: borrower %d cannot repay", id, loan.Issuer.AgentID())
		}
		s.log.Debug("repaying due loan", "loan", id, "value", loan.Value)
		if err := borrower.MakeLoanRepayment(id, loan.Value); err != nil {
			return fmt.Errorf("loan %d: %w", id, err)
		}
	}
	return nil
}

func (s *Scheduler) payCoupons(day int) error {
	bonds := s.model.World.Bonds
	frequency := float64(bonds.CouponFrequency())
	for _, id := range bonds.IDs() {
		bond, err := bonds.Get(id)
		if err != nil {
			continue
		}
		if bond.IssueDate == day {
			continue
		}
		issuer, ok := bond.Issuer.(payer)
		if !ok {
			return fmt.Errorf("bond %d: issuer %d cannot pay coupons", id, bond.Issuer.AgentID())
		}
		holder, ok := bond.Holder.(Depositor)
		if !ok || !holder.HasDepositAccount() {
			return fmt.Errorf("bond %d: holder %d has no account for coupons", id, bond.Holder.AgentID())
		}
		coupon := bond.Value * (bond.InterestRate / frequency) / 100.0
		if err := issuer.Pay(holder.DepositAccountNumber(), coupon); err != nil {
			return fmt.Errorf("bond %d coupon: %w", id, err)
		}
	}
	s.log.Debug("coupons paid", "day", day)
	return nil
}

func (s *Scheduler) retireMaturingBonds(day int) error {
	bonds := s.model.World.Bonds
	for _, id := range bonds.BondsMaturing(day) {
		bond, err := bonds.Get(id)
		if err != nil {
			return err
		}
		issuer, ok := bond.Issuer.(agent.BondObligor)
		if !ok {
			return fmt.Errorf("bond %d: issuer %d cannot redeem", id, bond.Issuer.AgentID())
		}
		if bond.Holder.AgentID() != bond.Issuer.AgentID() {
			vendor, ok := bond.Holder.(agent.BondVendor)
			if !ok {
				return fmt.Errorf("bond %d: holder %d cannot deliver", id, bond.Holder.AgentID())
			}
			if err := issuer.BuyBond(vendor, ledger.BondFaceValue, id); err != nil {
				return fmt.Errorf("bond %d redemption: %w", id, err)
			}
		}
		issuer.CloseBond(id)
		s.log.Debug("bond matured", "bond", id, "day", day)
	}
	return nil
}

func (s *Scheduler) runRealEconomy() error {
	m := s.model
	m.ShuffleHouseholds()

	if m.Calendar.IsMonthStart() {
		for _, firm := range m.Firms {
			firm.MonthStart()
		}
		for _, h := range m.Households {
			h.MonthStart()
		}
	}

	for _, h := range m.Households {
		if err := h.Day(); err != nil {
			return err
		}
	}
	for _, firm := range m.Firms {
		firm.Day()
	}

	if m.Calendar.IsMonthEnd() {
		for _, firm := range m.Firms {
			if err := firm.MonthEnd(); err != nil {
				return err
			}
		}
		holdings, total := m.CalculateShareholdings()
		for _, firm := range m.Firms {
			if err := firm.DistributeProfits(holdings, total, m.Registrar); err != nil {
				return err
			}
		}
		if err := m.Registrar.PayDividends(); err != nil {
			return err
		}
		for _, h := range m.Households {
			h.MonthEnd()
		}
	}
	return nil
}

// runInterbankSession lets short banks borrow overnight and long banks lend,
// with the central bank's standing facility guaranteeing the market clears.
func (s *Scheduler) runInterbankSession() error {
	m := s.model
	m.CentralBank.OpenStandingLendingFacility()

	for _, bank := range m.Banks {
		balance := bank.DepositBalance()
		switch {
		case balance < 0:
			m.World.Interbank.RegisterInterest(bank, -balance, m.CentralBank.LoanRate())
		case balance > 0:
			m.World.Interbank.RegisterOffer(bank, balance, m.CentralBank.DepositRate())
		}
	}

	if err := m.World.Interbank.ClearMarket(); err != nil {
		return err
	}
	m.World.Interbank.CloseMarket()
	return nil
}
