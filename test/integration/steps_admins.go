package integration

import (
	"fmt"
	"net/http"
)

func (s *StepsContext) addsAdmin(caller, alias string) error {
	a := s.account(alias)
	if err := s.do(http.MethodPost, "/api/admins/add", s.account(caller).token, map[string]string{
		"name":     alias,
		"email":    a.email,
		"password": a.password,
	}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var body struct {
		Admin struct {
			ID string `json:"id"`
		} `json:"admin"`
	}
	if err := s.decode(&body); err != nil {
		return err
	}
	a.id = body.Admin.ID
	return nil
}

func (s *StepsContext) listsAdmins(caller string) error {
	return s.do(http.MethodGet, "/api/admins", s.account(caller).token, nil)
}

func (s *StepsContext) removesAdmin(caller, alias string) error {
	id := s.account(alias).id
	if id == "" {
		id = "unknown-" + s.run
	}
	return s.do(http.MethodDelete, "/api/admins/delete/"+id, s.account(caller).token, nil)
}

func (s *StepsContext) adminEmails() (map[string]bool, error) {
	var admins []struct {
		Email string `json:"email"`
	}
	if err := s.decode(&admins); err != nil {
		return nil, err
	}
	emails := make(map[string]bool, len(admins))
	for _, a := range admins {
		emails[a.Email] = true
	}
	return emails, nil
}

func (s *StepsContext) theAdminListShouldInclude(alias string) error {
	emails, err := s.adminEmails()
	if err != nil {
		return err
	}
	if !emails[s.account(alias).email] {
		return fmt.Errorf("admin %q not listed", alias)
	}
	return nil
}

func (s *StepsContext) theAdminListShouldNotInclude(alias string) error {
	emails, err := s.adminEmails()
	if err != nil {
		return err
	}
	if emails[s.account(alias).email] {
		return fmt.Errorf("admin %q still listed", alias)
	}
	return nil
}
