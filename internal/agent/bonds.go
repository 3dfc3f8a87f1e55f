package agent

import (
	"fmt"

	"econsim/internal/accounting"
	"econsim/internal/market"
)

// BondIssuing is the capability of an agent that funds itself by issuing
// bonds, in practice the government.
type BondIssuing struct {
	owner   *Base
	self    market.BondSeller
	holding *DepositHolding
}

func (bi *BondIssuing) initBondIssuing(owner *Base, self market.BondSeller, holding *DepositHolding) {
	bi.owner = owner
	bi.self = self
	bi.holding = holding
	owner.registerLiability(bi.bondLiabilities)
}

// CreateBonds issues bonds covering value at face-value granularity and
// registers the issue with the exchange so a market exists to sell into.
// The new bonds sit on the issuer's own book until sold.
func (bi *BondIssuing) CreateBonds(value, couponRate, maturityYears float64) ([]int, error) {
	w := bi.owner.world
	ids, err := w.Bonds.CreateBulkValue(bi.self, value, couponRate, maturityYears)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		bond, err := w.Bonds.Get(ids[0])
		if err != nil {
			return nil, err
		}
		w.Exchange.RegisterBondIssue(bond.MaturityDate, bond.InterestRate)
	}
	return ids, nil
}

// OfferBonds places quantity of the issue for sale at price.
func (bi *BondIssuing) OfferBonds(maturityDate int, couponRate, quantity, price float64) error {
	m := bi.owner.world.Exchange.Market(maturityDate, couponRate)
	if m == nil {
		return fmt.Errorf("no market for bonds maturing on day %d at %.2f%%", maturityDate, couponRate)
	}
	m.RegisterOffer(bi.self, quantity, price)
	return nil
}

// SellBond collects payment into the issuer's deposit account and hands the
// bond over.
func (bi *BondIssuing) SellBond(buyer market.Trader, price float64, bondID int) error {
	payer, ok := buyer.(Payer)
	if !ok {
		return fmt.Errorf("%w: agent %d cannot pay for bonds", ErrIneligible, buyer.AgentID())
	}
	if err := payer.Pay(bi.holding.DepositAccountNumber(), price); err != nil {
		return err
	}
	return bi.owner.world.Bonds.Transfer(bondID, buyer)
}

// BuyBond repurchases one of the issuer's own bonds, typically at maturity.
func (bi *BondIssuing) BuyBond(seller BondVendor, price float64, bondID int) error {
	return seller.SellBond(bi.self, price, bondID)
}

// CloseBond retires a bond the issuer has bought back.
func (bi *BondIssuing) CloseBond(bondID int) bool {
	return bi.owner.world.Bonds.Close(bondID)
}

func (bi *BondIssuing) bondLiabilities(except accounting.Exclusion) accounting.Contribution {
	bonds := bi.owner.world.Bonds
	var total float64
	for _, id := range bonds.ByIssuer(bi.self) {
		bond, err := bonds.Get(id)
		if err != nil {
			continue
		}
		// Unsold bonds on the issuer's own book are not debt yet.
		if bond.Holder.AgentID() == bi.owner.id || except.Excludes(bond.Holder.AgentID()) {
			continue
		}
		total += bond.MarkToMarketValue
	}
	return accounting.Contribution{Label: "bonds", Value: total}
}

// BondHolding is the investor-side capability.
type BondHolding struct {
	owner   *Base
	self    market.Trader
	holding *DepositHolding
}

func (bh *BondHolding) initBondHolding(owner *Base, self market.Trader, holding *DepositHolding) {
	bh.owner = owner
	bh.self = self
	bh.holding = holding
	owner.registerAsset(bh.bondAssets)
}

// SeekBonds places buying interest for the issue. The market must already
// exist, bonds cannot be bought before anyone has issued them.
func (bh *BondHolding) SeekBonds(maturityDate int, couponRate, quantity, price float64) error {
	m := bh.owner.world.Exchange.Market(maturityDate, couponRate)
	if m == nil {
		return fmt.Errorf("no market for bonds maturing on day %d at %.2f%%", maturityDate, couponRate)
	}
	m.RegisterInterest(bh.self, quantity, price)
	return nil
}

// BuyBond pays the vendor and takes delivery.
func (bh *BondHolding) BuyBond(seller BondVendor, price float64, bondID int) error {
	return seller.SellBond(bh.self, price, bondID)
}

// SellBond collects payment from the buyer and transfers the bond on.
func (bh *BondHolding) SellBond(buyer market.Trader, price float64, bondID int) error {
	payer, ok := buyer.(Payer)
	if !ok {
		return fmt.Errorf("%w: agent %d cannot pay for bonds", ErrIneligible, buyer.AgentID())
	}
	bonds := bh.owner.world.Bonds
	bond, err := bonds.Get(bondID)
	if err != nil {
		return err
	}
	if bond.Holder.AgentID() != bh.owner.id {
		return fmt.Errorf("%w: agent %d does not hold bond %d", ErrUnauthorized, bh.owner.id, bondID)
	}
	if bh.holding == nil || !bh.holding.HasDepositAccount() {
		return fmt.Errorf("%w: agent %d has no deposit account to collect payment", ErrIneligible, bh.owner.id)
	}
	if err := payer.Pay(bh.holding.DepositAccountNumber(), price); err != nil {
		return err
	}
	return bonds.Transfer(bondID, buyer)
}

func (bh *BondHolding) bondAssets(except accounting.Exclusion) accounting.Contribution {
	bonds := bh.owner.world.Bonds
	var total float64
	for _, id := range bonds.ByHolder(bh.self) {
		bond, err := bonds.Get(id)
		if err != nil {
			continue
		}
		if bond.Issuer.AgentID() == bh.owner.id || except.Excludes(bond.Issuer.AgentID()) {
			continue
		}
		total += bond.MarkToMarketValue
	}
	return accounting.Contribution{Label: "bonds", Value: total}
}
