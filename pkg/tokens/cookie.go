package tokens

import (
	"net/http"
	"time"
)

const AccessCookieName = "accessToken"

func AccessCookie(value string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearAccessCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
