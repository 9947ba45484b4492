package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Browser-facing flows (invite redemption) respond with a redirect to the
// landing path plus a one-shot flash message carried in a short-lived cookie.
const (
	flashCookieName = "slipway_flash"
	landingPath     = "/"

	flashError   = "error"
	flashSuccess = "success"
)

type flashMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func setFlash(w http.ResponseWriter, kind, message string) {
	payload, err := json.Marshal(flashMessage{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, req *http.Request) (flashMessage, bool) {
	cookie, err := req.Cookie(flashCookieName)
	if err != nil {
		return flashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return flashMessage{}, false
	}
	var msg flashMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return flashMessage{}, false
	}
	return msg, true
}

func (r *Router) redirectError(w http.ResponseWriter, req *http.Request, message string) {
	setFlash(w, flashError, message)
	http.Redirect(w, req, landingPath, http.StatusSeeOther)
}

func (r *Router) redirectSuccess(w http.ResponseWriter, req *http.Request, message string) {
	setFlash(w, flashSuccess, message)
	http.Redirect(w, req, landingPath, http.StatusSeeOther)
}
