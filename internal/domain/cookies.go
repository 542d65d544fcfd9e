package domain

import "maps"

const (
	CookieDomain     = "twitch.tv"
	CookieAuthToken  = "auth-token"
	CookiePersistent = "persistent"
	CookieUniqueID   = "unique_id"
)

type Cookies map[string]string

func (c Cookies) Clone() Cookies {
	if c == nil {
		return Cookies{}
	}
	return maps.Clone(c)
}
