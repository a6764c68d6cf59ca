package bond

// YieldMethod selects the present-value formula family for a yield solve.
type YieldMethod int

const (
	// Compounded discounts at (1 + y/freq) per period, with the first
	// fractional period handled per FirstPeriodTreatment. First so that
	// the zero Convention is the Street convention.
	Compounded YieldMethod = iota
	// Simple discounts every flow linearly: CF / (1 + y*n/freq).
	Simple
	// MoneyMarketDiscount and MoneyMarketAddOn use the same linear PV as
	// Simple; they differ only in how the quote is expressed (see the
	// DiscountYield and BondEquivalentYield helpers).
	MoneyMarketDiscount
	MoneyMarketAddOn
)

// FirstPeriodTreatment controls how a Compounded solve discounts the first,
// possibly fractional, period.
type FirstPeriodTreatment int

const (
	// FirstPeriodLinear discounts the first flow by 1/(1 + y*n1/freq) and
	// compounds thereafter. This is the Street (SIFMA) convention.
	FirstPeriodLinear FirstPeriodTreatment = iota
	// FirstPeriodCompound discounts every flow, the first included, by
	// (1 + y/freq)^-n. This is the ICMA convention.
	FirstPeriodCompound
)

// Convention is the pair of tags that fully determines the PV formula.
// It is fixed for the life of one solve call.
type Convention struct {
	Method      YieldMethod
	FirstPeriod FirstPeriodTreatment
}

// StreetConvention discounts the first fractional period linearly and
// compounds thereafter.
func StreetConvention() Convention {
	return Convention{Method: Compounded, FirstPeriod: FirstPeriodLinear}
}

// ICMAConvention compound-discounts every period including the first.
func ICMAConvention() Convention {
	return Convention{Method: Compounded, FirstPeriod: FirstPeriodCompound}
}

func (m YieldMethod) String() string {
	switch m {
	case Simple:
		return "SIMPLE"
	case MoneyMarketDiscount:
		return "MM-DISCOUNT"
	case MoneyMarketAddOn:
		return "MM-ADDON"
	case Compounded:
		return "COMPOUNDED"
	default:
		return "UNKNOWN"
	}
}

func (c Convention) String() string {
	if c.Method != Compounded {
		return c.Method.String()
	}
	if c.FirstPeriod == FirstPeriodLinear {
		return "STREET"
	}
	return "ICMA"
}
