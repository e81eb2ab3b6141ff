package authz

// Actions checked against the role policy.
const (
	// LoanSubmit allows submitting a loan application for oneself
	LoanSubmit = "loan:submit"

	// LoanListOwn allows listing one's own loan applications
	LoanListOwn = "loan:list-own"

	// LoanListAll allows listing every loan application
	LoanListAll = "loan:list-all"

	// LoanSetStatus allows moving a loan application to the target status
	LoanSetStatus = "loan:set-status"

	// AdminManage allows listing, adding and removing admins
	AdminManage = "admin:manage"
)

// AnyTarget is the object of actions that do not take a target.
const AnyTarget = "*"

// policy is the fixed role table. Anything not listed is denied.
var policy = [][]string{
	{"user", LoanSubmit, AnyTarget},
	{"user", LoanListOwn, AnyTarget},

	{"verifier", LoanListAll, AnyTarget},
	{"verifier", LoanSetStatus, "verified"},
	{"verifier", LoanSetStatus, "rejected"},

	{"admin", LoanListAll, AnyTarget},
	{"admin", LoanSetStatus, "approved"},
	{"admin", LoanSetStatus, "rejected"},

	{"super-admin", LoanListAll, AnyTarget},
	{"super-admin", LoanSetStatus, "verified"},
	{"super-admin", LoanSetStatus, "approved"},
	{"super-admin", LoanSetStatus, "rejected"},
	{"super-admin", AdminManage, AnyTarget},
}
