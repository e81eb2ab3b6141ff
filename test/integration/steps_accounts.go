package integration

import (
	"fmt"
	"net/http"
)

func (s *StepsContext) registerBody(alias, role, key string) map[string]string {
	a := s.account(alias)
	body := map[string]string{
		"name":     alias,
		"email":    a.email,
		"password": a.password,
		"role":     role,
	}
	switch role {
	case "admin":
		body["adminKey"] = key
	case "verifier":
		body["verifierKey"] = key
	}
	return body
}

func keyFor(role string) string {
	switch role {
	case "admin":
		return testAdminKey
	case "verifier":
		return testVerifierKey
	}
	return ""
}

func (s *StepsContext) registersAs(alias, role string) error {
	return s.do(http.MethodPost, "/api/register", "", s.registerBody(alias, role, keyFor(role)))
}

func (s *StepsContext) registersWithKey(alias, role, key string) error {
	return s.do(http.MethodPost, "/api/register", "", s.registerBody(alias, role, key))
}

func (s *StepsContext) aRoleIsLoggedIn(role, alias string) error {
	if err := s.registersAs(alias, role); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	if err := s.logsIn(alias); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) theSuperAdminIsLoggedIn() error {
	if err := s.logsIn(superAdminAlias); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) logsIn(alias string) error {
	return s.logsInWithPassword(alias, s.account(alias).password)
}

func (s *StepsContext) logsInWithPassword(alias, password string) error {
	a := s.account(alias)
	if err := s.do(http.MethodPost, "/api/login", "", map[string]string{
		"email":    a.email,
		"password": password,
	}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return nil
	}

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	if body.Token == "" {
		return fmt.Errorf("login succeeded without a token")
	}
	a.token = body.Token
	a.id = body.User.ID
	return nil
}

func (s *StepsContext) theSessionShouldBelongTo(role string) error {
	var body struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	if body.User.Role != role {
		return fmt.Errorf("expected role %q, got %q", role, body.User.Role)
	}
	return nil
}
