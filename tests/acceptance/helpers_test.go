package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mpetrovskiy/reward-service/internal/dto"
)

func (s *Suite) postJSON(path, token string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) putJSON(path, token string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPut, s.BaseURL+path, bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) getJSON(path, token string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, s.BaseURL+path, nil)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

// register signs a user up with a valid default password and returns the
// auth response.
func (s *Suite) register(firstName, email, referralCode string) dto.AuthResponse {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		FirstName:    firstName,
		LastName:     "Tester",
		Email:        email,
		Password:     "Str0ng#pass",
		ReferralCode: referralCode,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, fmt.Sprintf("registration of %s should succeed", email))

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}

func (s *Suite) login(email string) dto.AuthResponse {
	resp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: "Str0ng#pass",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}
