package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

const superAdminAlias = "the super-admin"

// account is a person known to a scenario by a short alias.
type account struct {
	email    string
	password string
	token    string
	id       string
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	run          string
	response     *http.Response
	responseBody []byte
	accounts     map[string]*account
	lastLoanID   string
}

// NewStepsContext creates a new steps context. Emails carry a per-scenario
// suffix so scenarios sharing one database do not collide.
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:  tc,
		run: uuid.NewString()[:8],
		accounts: map[string]*account{
			superAdminAlias: {email: testSuperAdminEmail, password: testSuperAdminPassword},
		},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the loandesk server is running$`, s.theServerIsRunning)

	// Accounts
	sc.Step(`^"([^"]*)" registers as a (user|verifier|admin|super-admin)$`, s.registersAs)
	sc.Step(`^"([^"]*)" registers as a (user|verifier|admin|super-admin) with key "([^"]*)"$`, s.registersWithKey)
	sc.Step(`^a (user|verifier|admin) "([^"]*)" is logged in$`, s.aRoleIsLoggedIn)
	sc.Step(`^"([^"]*)" logs in$`, s.logsIn)
	sc.Step(`^"([^"]*)" logs in with password "([^"]*)"$`, s.logsInWithPassword)
	sc.Step(`^the super-admin is logged in$`, s.theSuperAdminIsLoggedIn)
	sc.Step(`^the session should belong to a (user|verifier|admin|super-admin)$`, s.theSessionShouldBelongTo)

	// Loans
	sc.Step(`^"([^"]*)" applies for a loan of (\d+) over (\d+) months$`, s.appliesForALoan)
	sc.Step(`^"([^"]*)" applies for a loan without accepting the terms$`, s.appliesWithoutTerms)
	sc.Step(`^"([^"]*)" sets the status of the last loan to "([^"]*)"$`, s.setsStatusOfLastLoan)
	sc.Step(`^"([^"]*)" lists their loans$`, s.listsTheirLoans)
	sc.Step(`^"([^"]*)" lists all loans$`, s.listsAllLoans)
	sc.Step(`^an anonymous client lists all loans$`, s.anonymousListsAllLoans)
	sc.Step(`^the last loan should have status "([^"]*)"$`, s.theLastLoanShouldHaveStatus)
	sc.Step(`^the response should contain (\d+) loans?$`, s.theResponseShouldContainLoans)
	sc.Step(`^the response should include the last loan$`, s.theResponseShouldIncludeTheLastLoan)

	// Admin roster
	sc.Step(`^"([^"]*)" adds admin "([^"]*)"$`, s.addsAdmin)
	sc.Step(`^"([^"]*)" lists admins$`, s.listsAdmins)
	sc.Step(`^"([^"]*)" removes admin "([^"]*)"$`, s.removesAdmin)
	sc.Step(`^the admin list should include "([^"]*)"$`, s.theAdminListShouldInclude)
	sc.Step(`^the admin list should not include "([^"]*)"$`, s.theAdminListShouldNotInclude)

	// Responses
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response message should be "([^"]*)"$`, s.theResponseMessageShouldBe)
	sc.Step(`^the response should report invalid field "([^"]*)"$`, s.theResponseShouldReportField)
}

func (s *StepsContext) theServerIsRunning() error {
	return nil
}

func (s *StepsContext) account(alias string) *account {
	a, ok := s.accounts[alias]
	if !ok {
		a = &account{
			email:    fmt.Sprintf("%s+%s@loandesk.test", strings.ToLower(strings.ReplaceAll(alias, " ", "-")), s.run),
			password: "password-" + alias,
		}
		s.accounts[alias] = a
	}
	return a
}

func (s *StepsContext) do(method, path, bearer string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) decode(v interface{}) error {
	if err := json.Unmarshal(s.responseBody, v); err != nil {
		return fmt.Errorf("failed to decode response %q: %w", string(s.responseBody), err)
	}
	return nil
}

func (s *StepsContext) expectStatus(code int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != code {
		return fmt.Errorf("expected status %d, got %d: %s", code, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(code int) error {
	return s.expectStatus(code)
}

func (s *StepsContext) theResponseMessageShouldBe(message string) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	if body.Message != message {
		return fmt.Errorf("expected message %q, got %q", message, body.Message)
	}
	return nil
}

func (s *StepsContext) theResponseShouldReportField(field string) error {
	var body struct {
		Fields []string `json:"fields"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	for _, f := range body.Fields {
		if f == field {
			return nil
		}
	}
	return fmt.Errorf("expected field %q in %v", field, body.Fields)
}
