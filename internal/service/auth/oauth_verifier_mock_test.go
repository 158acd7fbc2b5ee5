package auth

import (
	"context"
	"sync"

	"github.com/Saifff-551/foodhelp/internal/auth"
)

var _ oauthVerifier = &oauthVerifierMock{}

type oauthVerifierMock struct {
	VerifyCodeFunc func(ctx context.Context, provider string, code string) (*auth.OAuthIdentity, error)

	calls struct {
		VerifyCode []struct {
			Ctx      context.Context
			Provider string
			Code     string
		}
	}
	lockVerifyCode sync.RWMutex
}

func (mock *oauthVerifierMock) VerifyCode(ctx context.Context, provider string, code string) (*auth.OAuthIdentity, error) {
	if mock.VerifyCodeFunc == nil {
		panic("oauthVerifierMock.VerifyCodeFunc: method is nil but oauthVerifier.VerifyCode was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Provider string
		Code     string
	}{Ctx: ctx, Provider: provider, Code: code}
	mock.lockVerifyCode.Lock()
	mock.calls.VerifyCode = append(mock.calls.VerifyCode, callInfo)
	mock.lockVerifyCode.Unlock()
	return mock.VerifyCodeFunc(ctx, provider, code)
}

func (mock *oauthVerifierMock) VerifyCodeCalls() []struct {
	Ctx      context.Context
	Provider string
	Code     string
} {
	mock.lockVerifyCode.RLock()
	calls := mock.calls.VerifyCode
	mock.lockVerifyCode.RUnlock()
	return calls
}
