package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

type CookieJar interface {
	// Cookies returns a copy of the cookies stored for host; empty when none.
	Cookies(host string) domain.Cookies
	SetCookies(host string, cookies domain.Cookies)
	ClearDomain(host string)
	Save(ctx context.Context) error
}
