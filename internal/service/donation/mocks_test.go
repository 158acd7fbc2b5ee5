package donation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

var (
	_ userRepo     = &userRepoMock{}
	_ safetyOracle = &safetyOracleMock{}
	_ orgVerifier  = &orgVerifierMock{}
	_ notifier     = &notifierMock{}
)

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

type safetyOracleMock struct {
	AssessFunc func(ctx context.Context, description string, preparedTime string) domain.SafetyAssessment

	calls struct {
		Assess []struct {
			Ctx          context.Context
			Description  string
			PreparedTime string
		}
	}
	lockAssess sync.RWMutex
}

func (mock *safetyOracleMock) Assess(ctx context.Context, description string, preparedTime string) domain.SafetyAssessment {
	if mock.AssessFunc == nil {
		panic("safetyOracleMock.AssessFunc: method is nil but safetyOracle.Assess was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		Description  string
		PreparedTime string
	}{Ctx: ctx, Description: description, PreparedTime: preparedTime}
	mock.lockAssess.Lock()
	mock.calls.Assess = append(mock.calls.Assess, callInfo)
	mock.lockAssess.Unlock()
	return mock.AssessFunc(ctx, description, preparedTime)
}

func (mock *safetyOracleMock) AssessCalls() []struct {
	Ctx          context.Context
	Description  string
	PreparedTime string
} {
	mock.lockAssess.RLock()
	calls := mock.calls.Assess
	mock.lockAssess.RUnlock()
	return calls
}

type orgVerifierMock struct {
	IsVerifiedFunc func(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error)

	calls struct {
		IsVerified []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Typ    domain.OrganizationType
		}
	}
	lockIsVerified sync.RWMutex
}

func (mock *orgVerifierMock) IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error) {
	if mock.IsVerifiedFunc == nil {
		panic("orgVerifierMock.IsVerifiedFunc: method is nil but orgVerifier.IsVerified was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Typ    domain.OrganizationType
	}{Ctx: ctx, UserID: userID, Typ: typ}
	mock.lockIsVerified.Lock()
	mock.calls.IsVerified = append(mock.calls.IsVerified, callInfo)
	mock.lockIsVerified.Unlock()
	return mock.IsVerifiedFunc(ctx, userID, typ)
}

func (mock *orgVerifierMock) IsVerifiedCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Typ    domain.OrganizationType
} {
	mock.lockIsVerified.RLock()
	calls := mock.calls.IsVerified
	mock.lockIsVerified.RUnlock()
	return calls
}

type notifierMock struct {
	NotifyFunc func(ctx context.Context)

	calls struct {
		Notify []struct {
			Ctx context.Context
		}
	}
	lockNotify sync.RWMutex
}

func (mock *notifierMock) Notify(ctx context.Context) {
	if mock.NotifyFunc == nil {
		panic("notifierMock.NotifyFunc: method is nil but notifier.Notify was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	mock.NotifyFunc(ctx)
}

func (mock *notifierMock) NotifyCalls() []struct {
	Ctx context.Context
} {
	mock.lockNotify.RLock()
	calls := mock.calls.Notify
	mock.lockNotify.RUnlock()
	return calls
}
