package handlers

import (
	"fmt"
	"incordes-client/internal/guard"
	"incordes-client/internal/validator"
	"net/http"
	"strings"
)

type loginData struct {
	Register bool
	Email    string
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	p := page{
		Title: "Incordes",
		Data: loginData{
			Register: r.URL.Query().Get("mode") == "register",
		},
	}
	h.banners(w, r, &p)
	h.render(w, http.StatusOK, "login", p)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	form := validator.Login{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if !h.checkForm(w, r, form, guard.PublicHome) {
		return
	}

	result := h.auth.Login(r.Context(), form.Email, form.Password)
	if !result.Success {
		h.flash(w, r, flashError, result.Error)
		seeOther(w, r, guard.PublicHome)
		return
	}

	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	const registerPage = guard.PublicHome + "?mode=register"

	form := validator.Register{
		UserName: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if !h.checkForm(w, r, form, registerPage) {
		return
	}

	result := h.auth.Register(r.Context(), form.Email, form.Password, form.UserName)
	if !result.Success {
		h.flash(w, r, flashError, result.Error)
		seeOther(w, r, registerPage)
		return
	}

	h.flash(w, r, flashSuccess, fmt.Sprintf("Account created! Your IncordesID: %s", result.User.IncordesID))
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.flash(w, r, flashError, "Failed to log out. Please try again.")
		seeOther(w, r, guard.ProtectedHome)
		return
	}
	seeOther(w, r, guard.PublicHome)
}

// checkForm validates form and, when it fails, flashes the first problem and
// sends the browser back to location.
func (h *Handlers) checkForm(w http.ResponseWriter, r *http.Request, form any, location string) bool {
	fieldErrors, err := validator.Check(form)
	if err != nil {
		h.sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return false
	}

	if len(fieldErrors) > 0 {
		h.sugar.Debugf("Form rejected: %v", fieldErrors)
		h.flash(w, r, flashError, validator.Describe(fieldErrors))
		seeOther(w, r, location)
		return false
	}

	return true
}
