package integration

import (
	"fmt"
	"net/http"
)

type loanBody struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Status  string `json:"status"`
}

func application(alias string, amount, tenure int, terms bool) map[string]interface{} {
	return map[string]interface{}{
		"fullName":           alias,
		"loanAmount":         amount,
		"loanTenure":         tenure,
		"employmentStatus":   "employed",
		"loanReason":         "home improvement",
		"employmentAddress1": "1 Main Street",
		"termsAccepted":      terms,
		"consent":            true,
	}
}

func (s *StepsContext) appliesForALoan(alias string, amount, tenure int) error {
	if err := s.do(http.MethodPost, "/api/loans/apply", s.account(alias).token, application(alias, amount, tenure, true)); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var body struct {
		Application loanBody `json:"application"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	s.lastLoanID = body.Application.ID
	return nil
}

func (s *StepsContext) appliesWithoutTerms(alias string) error {
	return s.do(http.MethodPost, "/api/loans/apply", s.account(alias).token, application(alias, 1000, 12, false))
}

func (s *StepsContext) setsStatusOfLastLoan(alias, status string) error {
	if s.lastLoanID == "" {
		return fmt.Errorf("no loan has been submitted")
	}
	return s.do(http.MethodPatch, "/api/loans/update-status/"+s.lastLoanID, s.account(alias).token, map[string]string{
		"status": status,
	})
}

func (s *StepsContext) listsTheirLoans(alias string) error {
	return s.do(http.MethodGet, "/api/loans/status", s.account(alias).token, nil)
}

func (s *StepsContext) listsAllLoans(alias string) error {
	return s.do(http.MethodGet, "/api/loans/all", s.account(alias).token, nil)
}

func (s *StepsContext) anonymousListsAllLoans() error {
	return s.do(http.MethodGet, "/api/loans/all", "", nil)
}

func (s *StepsContext) theLastLoanShouldHaveStatus(status string) error {
	var body struct {
		Updated loanBody `json:"updatedLoanApplication"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	if body.Updated.ID != s.lastLoanID {
		return fmt.Errorf("expected loan %s, got %s", s.lastLoanID, body.Updated.ID)
	}
	if body.Updated.Status != status {
		return fmt.Errorf("expected status %q, got %q", status, body.Updated.Status)
	}
	return nil
}

// loans decodes either a page of the caller's loans or a plain list.
func (s *StepsContext) loans() ([]loanBody, error) {
	var page struct {
		Loans []loanBody `json:"loans"`
	}
	if len(s.responseBody) > 0 && s.responseBody[0] == '{' {
		if err := s.decode(&page); err != nil {
			return nil, err
		}
		return page.Loans, nil
	}
	var list []loanBody
	if err := s.decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *StepsContext) theResponseShouldContainLoans(n int) error {
	loans, err := s.loans()
	if err != nil {
		return err
	}
	if len(loans) != n {
		return fmt.Errorf("expected %d loans, got %d", n, len(loans))
	}
	return nil
}

func (s *StepsContext) theResponseShouldIncludeTheLastLoan() error {
	loans, err := s.loans()
	if err != nil {
		return err
	}
	for _, l := range loans {
		if l.ID == s.lastLoanID {
			return nil
		}
	}
	return fmt.Errorf("loan %s not in response", s.lastLoanID)
}
