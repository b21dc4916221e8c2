package web

import (
	"encoding/base64"
	"net/http"
)

const (
	alertCookieName = "codehub_alert"
	alertMaxAge     = 60
)

// setAlert stores msg for the next page rendered under path.
func setAlert(w http.ResponseWriter, path, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     alertCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     path,
		MaxAge:   alertMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeAlert returns the pending alert and clears its cookie. An alert is
// shown once.
func takeAlert(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(alertCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     alertCookieName,
		Value:    "",
		Path:     r.URL.Path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	msg, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
