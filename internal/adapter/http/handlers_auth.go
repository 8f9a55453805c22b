package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"nutritrack/internal/app"
	"nutritrack/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
)

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.svc.Auth.SessionTTL() / time.Second),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		Email    string  `json:"email"`
		Age      int     `json:"age"`
		Weight   float64 `json:"weight"`
		Gender   string  `json:"gender"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "register", err)
		return
	}

	user, token, err := s.svc.Auth.Register(r.Context(), app.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Age:      req.Age,
		Weight:   req.Weight,
		Gender:   req.Gender,
	}, r.UserAgent())
	if err != nil {
		s.respondError(w, r, "register", err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"userId":  user.ID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "login", err)
		return
	}

	user, token, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password, r.UserAgent())
	if err != nil {
		s.respondError(w, r, "login", err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"UserId": user.ID})
}

// handleLogout always succeeds; an unknown or missing session is not an error.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := s.svc.Auth.Logout(r.Context(), cookie.Value); err != nil {
			s.log.Warn("logout", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled": s.opts.OIDC.Enabled,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.opts.OIDC.Enabled {
		http.Error(w, "sso disabled", http.StatusNotFound)
		return
	}
	state, err := generateState()
	if err != nil {
		s.respondError(w, r, "sso state", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
	http.Redirect(w, r, s.opts.OIDC.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.opts.OIDC.Enabled {
		http.Error(w, "sso disabled", http.StatusNotFound)
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || r.URL.Query().Get("state") != state.Value {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	oauthToken, err := s.opts.OIDC.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.respondError(w, r, "sso exchange", err)
		return
	}
	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		http.Error(w, "no id_token", http.StatusBadGateway)
		return
	}

	verifier := s.opts.OIDC.Provider.Verifier(&oidc.Config{ClientID: s.opts.OIDC.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		s.log.Warn("sso token rejected", zap.Error(err))
		http.Error(w, "invalid id_token", http.StatusForbidden)
		return
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Sub               string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		s.respondError(w, r, "sso claims", err)
		return
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}
	if username == "" {
		username = claims.Sub
	}

	token, err := s.svc.Auth.LoginWithUser(r.Context(), username, claims.Email, r.UserAgent())
	if err != nil {
		s.respondError(w, r, "sso login", err)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *Server) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, "user details", err)
		return
	}
	user, err := s.svc.Users.Details(r.Context(), userID(r), id)
	if err != nil {
		s.respondError(w, r, "user details", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleUserUpdate accepts both the English and the Danish field names
// sent by the profile page.
func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, "user update", err)
		return
	}
	var req struct {
		Age    *int     `json:"age"`
		Weight *float64 `json:"weight"`
		Gender *string  `json:"gender"`
		Alder  *int     `json:"alder"`
		Vaegt  *float64 `json:"vægt"`
		Koen   *string  `json:"køn"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "user update", err)
		return
	}
	p := domain.ProfilePatch{Age: req.Age, Weight: req.Weight, Gender: req.Gender}
	if p.Age == nil {
		p.Age = req.Alder
	}
	if p.Weight == nil {
		p.Weight = req.Vaegt
	}
	if p.Gender == nil {
		p.Gender = req.Koen
	}

	if err := s.svc.Users.UpdateProfile(r.Context(), userID(r), id, p); err != nil {
		s.respondError(w, r, "user update", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User updated"})
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, "user delete", err)
		return
	}
	if err := s.svc.Users.Delete(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, "user delete", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted"})
}
