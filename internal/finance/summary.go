package finance

// CreditTier is the coarse on-ledger risk classification. The slice order
// below matches the on-ledger enum; Index is what gets published.
type CreditTier string

// IncomeBand is the coarse on-ledger income classification.
type IncomeBand string

const (
	TierNone CreditTier = "None"
	BandNone IncomeBand = "None"
)

// CreditTiers lists all tiers in on-ledger enum order.
var CreditTiers = []CreditTier{
	"None",
	"LowBronze", "MidBronze", "HighBronze",
	"LowSilver", "MidSilver", "HighSilver",
	"LowGold", "MidGold", "HighGold",
	"LowPlatinum", "MidPlatinum", "HighPlatinum",
}

// IncomeBands lists all bands in on-ledger enum order.
var IncomeBands = []IncomeBand{
	"None",
	"upto25k", "upto50k", "upto75k", "upto100k",
	"upto150k", "upto200k", "upto250k", "upto300k",
	"upto350k", "upto400k", "upto450k", "upto500k",
	"moreThan500k",
}

// tierThresholds maps risk score floors to tiers, highest first. A score equal
// to a threshold qualifies for that tier.
var tierThresholds = []struct {
	floor float64
	tier  CreditTier
}{
	{800, "HighPlatinum"}, {740, "MidPlatinum"}, {700, "LowPlatinum"},
	{660, "HighGold"}, {620, "MidGold"}, {580, "LowGold"},
	{540, "HighSilver"}, {500, "MidSilver"}, {460, "LowSilver"},
	{420, "HighBronze"}, {380, "MidBronze"}, {340, "LowBronze"},
	{0, TierNone},
}

// incomeBandThresholds maps income ceilings to bands, lowest first. Income
// equal to a ceiling qualifies for that band; above the top ceiling maps to
// moreThan500k.
var incomeBandThresholds = []struct {
	ceiling float64
	band    IncomeBand
}{
	{25_000, "upto25k"}, {50_000, "upto50k"}, {75_000, "upto75k"},
	{100_000, "upto100k"}, {150_000, "upto150k"}, {200_000, "upto200k"},
	{250_000, "upto250k"}, {300_000, "upto300k"}, {350_000, "upto350k"},
	{400_000, "upto400k"}, {450_000, "upto450k"}, {500_000, "upto500k"},
}

// Index returns the tier's on-ledger enum value.
func (t CreditTier) Index() int {
	for i, tier := range CreditTiers {
		if tier == t {
			return i
		}
	}
	return 0
}

// Index returns the band's on-ledger enum value.
func (b IncomeBand) Index() int {
	for i, band := range IncomeBands {
		if band == b {
			return i
		}
	}
	return 0
}

// TierFromIndex maps an on-ledger enum value back to its label.
func TierFromIndex(i int) CreditTier {
	if i >= 0 && i < len(CreditTiers) {
		return CreditTiers[i]
	}
	return TierNone
}

// BandFromIndex maps an on-ledger enum value back to its label.
func BandFromIndex(i int) IncomeBand {
	if i >= 0 && i < len(IncomeBands) {
		return IncomeBands[i]
	}
	return BandNone
}

// Summary is the derived risk/credit view of a record set. It is ephemeral:
// recomputed per request, never persisted.
type Summary struct {
	NetWorth         float64    `json:"netWorth"`
	TotalAssets      float64    `json:"totalAssets"`
	TotalLiabilities float64    `json:"totalLiabilities"`
	DTI              *float64   `json:"dti,omitempty"`
	Utilization      *float64   `json:"utilization,omitempty"`
	RiskScore        float64    `json:"riskScore"`
	CreditTier       CreditTier `json:"creditTier"`
	IncomeBand       IncomeBand `json:"incomeBand"`
}

// ComputeSummary derives a Summary from a record set plus optional context.
// A zero (or negative) annualIncome or totalCreditLimit means the respective
// ratio is absent and contributes nothing to the risk score.
func ComputeSummary(r RecordSet, annualIncome, totalCreditLimit float64) Summary {
	totalAssets := r.TotalAssets()
	totalLiabilities := r.TotalLiabilities()
	netWorth := totalAssets - totalLiabilities

	var dti, utilization *float64
	if annualIncome > 0 {
		var monthlyPayments float64
		for _, l := range r.Liabilities {
			monthlyPayments += l.MonthlyPayment
		}
		v := monthlyPayments / (annualIncome / 12)
		dti = &v
	}
	if totalCreditLimit > 0 {
		v := totalLiabilities / totalCreditLimit
		utilization = &v
	}

	score := riskScore(netWorth, dti, utilization)

	return Summary{
		NetWorth:         netWorth,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		DTI:              dti,
		Utilization:      utilization,
		RiskScore:        score,
		CreditTier:       mapTier(score),
		IncomeBand:       mapIncomeBand(annualIncome),
	}
}

func riskScore(netWorth float64, dti, utilization *float64) float64 {
	score := 500.0
	score += clamp(netWorth/10_000, -200, 300)
	if dti != nil {
		score -= clamp(*dti*200, 0, 250)
	}
	if utilization != nil {
		score -= clamp(*utilization*400, 0, 250)
	}
	return clamp(score, 0, 1000)
}

func mapTier(score float64) CreditTier {
	for _, t := range tierThresholds {
		if score >= t.floor {
			return t.tier
		}
	}
	return TierNone
}

func mapIncomeBand(annualIncome float64) IncomeBand {
	if annualIncome <= 0 {
		return BandNone
	}
	for _, b := range incomeBandThresholds {
		if annualIncome <= b.ceiling {
			return b.band
		}
	}
	return "moreThan500k"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
