package analysis

// riskSignal is a phrase whose presence raises the risk score.
type riskSignal struct {
	phrase  string
	finding string
	weight  int
}

var riskSignals = []riskSignal{
	{"indemnif", "Contains an indemnification obligation; review who bears the liability.", 12},
	{"unilateral", "One party may change terms unilaterally.", 15},
	{"liquidated damages", "Liquidated damages are specified; verify the amounts are proportionate.", 12},
	{"auto-renew", "Auto-renewal language present; check the cancellation window.", 8},
	{"automatically renew", "Auto-renewal language present; check the cancellation window.", 8},
	{"non-compete", "Non-compete restriction present; check scope and duration.", 10},
	{"penalty", "Penalty provisions present.", 8},
	{"waive", "A waiver of rights appears in the document.", 10},
	{"sole discretion", "A party acts at its sole discretion; obligations may be one-sided.", 10},
	{"irrevocable", "Irrevocable grant or commitment present.", 8},
	{"perpetual", "Perpetual term or license present.", 6},
}

// clause is an expected standard clause; its absence raises risk.
type clause struct {
	name          string
	markers       []string
	missingWeight int
}

var clauseChecklist = []clause{
	{"governing law", []string{"governing law", "governed by the laws"}, 6},
	{"termination", []string{"termination", "terminate"}, 8},
	{"confidentiality", []string{"confidential"}, 6},
	{"dispute resolution", []string{"dispute", "arbitration", "mediation"}, 6},
	{"limitation of liability", []string{"limitation of liability", "liability shall not exceed", "liability is limited"}, 8},
	{"force majeure", []string{"force majeure", "act of god"}, 4},
}

// contractType maps marker phrases to a human-readable contract type.
type contractType struct {
	name    string
	markers []string
}

var contractTypes = []contractType{
	{"Non-Disclosure Agreement (NDA)", []string{"non-disclosure", "nondisclosure"}},
	{"Employment Contract", []string{"employment", "employee", "employer"}},
	{"Rental Agreement", []string{"lease", "rental", "tenant", "landlord"}},
	{"Service Agreement", []string{"statement of work", "services agreement", "service provider"}},
	{"Sales Contract", []string{"purchase", "bill of sale", "buyer", "seller"}},
	{"Loan Agreement", []string{"loan", "borrower", "lender"}},
}
