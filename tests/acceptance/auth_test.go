package acceptance

import (
	"net/http"

	"github.com/mpetrovskiy/reward-service/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	authResp := s.register("Alice", "alice@example.com", "")

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("alice@example.com", authResp.User.Email)
	s.NotEmpty(authResp.User.ID)
	s.Equal(100, authResp.User.Coins)
	s.NotEmpty(authResp.User.ReferralCode)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("Alice", "duplicate@example.com", "")

	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Tester",
		Email:     "duplicate@example.com",
		Password:  "Str0ng#pass",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Tester",
		Email:     "invalid-email",
		Password:  "Str0ng#pass",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Tester",
		Email:     "alice@example.com",
		Password:  "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_UnknownReferralCode() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		FirstName:    "Bob",
		LastName:     "Tester",
		Email:        "bob@example.com",
		Password:     "Str0ng#pass",
		ReferralCode: "ghost9999",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_ReferralCreditsBothSides() {
	referrer := s.register("Alice", "alice@example.com", "")
	referee := s.register("Bob", "bob@example.com", referrer.User.ReferralCode)

	s.Equal(150, referee.User.Coins)

	resp := s.getJSON("/api/v1/auth/me", referrer.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)

	var me dto.UserResponse
	s.decode(resp, &me)
	s.Equal(150, me.Coins)
	s.Equal(1, me.ReferredCount)
}

func (s *Suite) TestLogin_DailyReward() {
	s.register("Alice", "alice@example.com", "")

	first := s.login("alice@example.com")
	s.Equal(110, first.User.Coins)
	s.Equal(1, first.User.LoginCount)

	second := s.login("alice@example.com")
	s.Equal(110, second.User.Coins, "second login on the same day earns nothing")
	s.Equal(2, second.User.LoginCount)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("Alice", "alice@example.com", "")

	resp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Wr0ng#pass",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesToken() {
	authResp := s.register("Alice", "alice@example.com", "")

	resp := s.postJSON("/api/v1/auth/logout", authResp.AccessToken, struct{}{})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	me := s.getJSON("/api/v1/auth/me", authResp.AccessToken)
	me.Body.Close()
	s.Equal(http.StatusUnauthorized, me.StatusCode)
}

func (s *Suite) TestChangePassword_RevokesTokenAndRotatesCredential() {
	authResp := s.register("Alice", "alice@example.com", "")

	resp := s.postJSON("/api/v1/auth/change-password", authResp.AccessToken, dto.ChangePasswordRequest{
		OldPassword: "Str0ng#pass",
		NewPassword: "N3w#secret1",
	})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	me := s.getJSON("/api/v1/auth/me", authResp.AccessToken)
	me.Body.Close()
	s.Equal(http.StatusUnauthorized, me.StatusCode)

	login := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "N3w#secret1",
	})
	login.Body.Close()
	s.Equal(http.StatusOK, login.StatusCode)
}

func (s *Suite) TestResetPassword_SingleUse() {
	authResp := s.register("Alice", "alice@example.com", "")

	resp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The token is delivered by email in production; read it from the
	// database here.
	var token string
	err := s.Postgres.DB.QueryRow(
		`SELECT reset_token FROM users WHERE id = $1`, authResp.User.ID,
	).Scan(&token)
	s.Require().NoError(err)
	s.Require().NotEmpty(token)

	reset := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "N3w#secret1",
	})
	reset.Body.Close()
	s.Equal(http.StatusOK, reset.StatusCode)

	replay := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "An0ther#one",
	})
	replay.Body.Close()
	s.Equal(http.StatusUnauthorized, replay.StatusCode)

	login := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "N3w#secret1",
	})
	login.Body.Close()
	s.Equal(http.StatusOK, login.StatusCode)
}

func (s *Suite) TestMe_RequiresAuth() {
	resp := s.getJSON("/api/v1/auth/me", "")
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
