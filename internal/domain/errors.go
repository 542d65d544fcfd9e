package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCaptchaRequired  = errors.New("login requires a CAPTCHA; log in through a browser once and retry")
	ErrLoginExhausted   = errors.New("ran out of login retries")
	ErrBadPassword      = errors.New("incorrect username or password")
	ErrTokenInvalidated = errors.New("access token invalidated")
	ErrUnknownChannel   = errors.New("stream state change for a non-existing channel")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrChannelOffline   = errors.New("channel is offline")
)

type LoginFailedError struct {
	Code    int
	Message string
}

func (e *LoginFailedError) Error() string {
	return fmt.Sprintf("login failed (code %d): %s", e.Code, e.Message)
}
