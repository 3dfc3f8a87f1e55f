package agent

// Kind tags an agent with its economic role. Routing and eligibility
// decisions query the tag directly.
type Kind int

const (
	KindHousehold Kind = iota
	KindFirm
	KindCommercialBank
	KindCentralBank
	KindGovernment
	KindRegistrar
)

func (k Kind) String() string {
	switch k {
	case KindHousehold:
		return "household"
	case KindFirm:
		return "firm"
	case KindCommercialBank:
		return "commercial bank"
	case KindCentralBank:
		return "central bank"
	case KindGovernment:
		return "government"
	case KindRegistrar:
		return "registrar"
	default:
		return "unknown"
	}
}

func (k Kind) IsBank() bool {
	return k == KindCommercialBank || k == KindCentralBank
}

func (k Kind) IsCommercial() bool { return k == KindCommercialBank }

func (k Kind) IsCentral() bool { return k == KindCentralBank }

func (k Kind) IsGovernment() bool { return k == KindGovernment }

func (k Kind) IsFirm() bool { return k == KindFirm }

func (k Kind) IsHousehold() bool { return k == KindHousehold }
