// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: auth, the wizard flow,
// project history, prompt templates, billing, showcase, and account
// endpoints. Handlers are grouped into structs wired in main and
// mounted by the router.
package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"promptforge/internal/mailer"
	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/render"
	"promptforge/internal/session"
	"promptforge/internal/store"
)

// totpIssuer is the name shown in authenticator apps.
const totpIssuer = "PromptForge"

// Auth groups registration, login, 2FA, and logout handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
	mail      *mailer.Mailer
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, mail *mailer.Mailer) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
		mail:      mail,
	}
}

// Register creates an account and opens a session. The session starts
// with 2FA incomplete; the client is told to continue with TOTP setup.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if msg := validateEmail(req.Email); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	existing, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if existing != nil {
		render.Error(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	user, err := a.userStore.Create(req.Email, req.Password, req.DisplayName, models.RoleUser)
	if err != nil {
		render.Internal(w, err)
		return
	}

	a.mail.Welcome(user.Email, user.DisplayName)

	if _, err := a.sessions.Create(r.Context(), w, sessionData(user)); err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"user":     user,
		"next":     "2fa_setup",
		"verified": false,
	})
}

// Login checks credentials and opens a session. TwoFADone starts as
// false; the client must complete TOTP setup or verification next.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		render.Error(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, sessionData(user)); err != nil {
		render.Internal(w, err)
		return
	}

	next := "2fa_verify"
	if user.Needs2FASetup() {
		next = "2fa_setup"
	}
	render.JSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"next":     next,
		"verified": false,
	})
}

// TwoFASetup generates a fresh TOTP secret for the logged-in user and
// returns it with a QR code PNG. Calling it again before verification
// replaces the pending secret.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		render.Internal(w, err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		render.Internal(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"secret":  key.Secret(),
		"qr_png":  base64.StdEncoding.EncodeToString(qrPNG),
		"otp_url": key.URL(),
	})
}

// TwoFAVerify validates a TOTP code and completes authentication. The
// first successful verification after setup enables TOTP permanently.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.TOTPSecret == nil {
		render.Error(w, http.StatusConflict, "Two-factor setup has not been started.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		render.Error(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			render.Internal(w, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"verified": true})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}

// sessionData builds the session payload for a freshly authenticated
// user. 2FA always starts incomplete.
func sessionData(user *models.User) *session.Data {
	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		PlanTier:    string(user.PlanTier),
		TwoFADone:   false,
	}
}
