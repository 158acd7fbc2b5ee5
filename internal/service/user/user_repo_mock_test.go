package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFunc              func(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error)
	AssignRoleIfPendingFunc func(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	UpdateRoleFunc          func(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	ListUsersFunc           func(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountUsersFunc          func(ctx context.Context) (int, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Update []struct {
			Ctx       context.Context
			ID        uuid.UUID
			Name      *string
			AvatarURL *string
		}
		AssignRoleIfPending []struct {
			Ctx  context.Context
			ID   uuid.UUID
			Role domain.UserRole
		}
		UpdateRole []struct {
			Ctx  context.Context
			ID   uuid.UUID
			Role string
		}
		ListUsers []struct {
			Ctx    context.Context
			Limit  int
			Offset int
		}
		CountUsers []struct {
			Ctx context.Context
		}
	}
	lockGetByID             sync.RWMutex
	lockUpdate              sync.RWMutex
	lockAssignRoleIfPending sync.RWMutex
	lockUpdateRole          sync.RWMutex
	lockListUsers           sync.RWMutex
	lockCountUsers          sync.RWMutex
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

func (mock *userRepoMock) Update(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error) {
	if mock.UpdateFunc == nil {
		panic("userRepoMock.UpdateFunc: method is nil but userRepo.Update was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        uuid.UUID
		Name      *string
		AvatarURL *string
	}{Ctx: ctx, ID: id, Name: name, AvatarURL: avatarURL}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, name, avatarURL)
}

func (mock *userRepoMock) UpdateCalls() []struct {
	Ctx       context.Context
	ID        uuid.UUID
	Name      *string
	AvatarURL *string
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *userRepoMock) AssignRoleIfPending(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if mock.AssignRoleIfPendingFunc == nil {
		panic("userRepoMock.AssignRoleIfPendingFunc: method is nil but userRepo.AssignRoleIfPending was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		ID   uuid.UUID
		Role domain.UserRole
	}{Ctx: ctx, ID: id, Role: role}
	mock.lockAssignRoleIfPending.Lock()
	mock.calls.AssignRoleIfPending = append(mock.calls.AssignRoleIfPending, callInfo)
	mock.lockAssignRoleIfPending.Unlock()
	return mock.AssignRoleIfPendingFunc(ctx, id, role)
}

func (mock *userRepoMock) AssignRoleIfPendingCalls() []struct {
	Ctx  context.Context
	ID   uuid.UUID
	Role domain.UserRole
} {
	mock.lockAssignRoleIfPending.RLock()
	calls := mock.calls.AssignRoleIfPending
	mock.lockAssignRoleIfPending.RUnlock()
	return calls
}

func (mock *userRepoMock) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	if mock.UpdateRoleFunc == nil {
		panic("userRepoMock.UpdateRoleFunc: method is nil but userRepo.UpdateRole was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		ID   uuid.UUID
		Role string
	}{Ctx: ctx, ID: id, Role: role}
	mock.lockUpdateRole.Lock()
	mock.calls.UpdateRole = append(mock.calls.UpdateRole, callInfo)
	mock.lockUpdateRole.Unlock()
	return mock.UpdateRoleFunc(ctx, id, role)
}

func (mock *userRepoMock) UpdateRoleCalls() []struct {
	Ctx  context.Context
	ID   uuid.UUID
	Role string
} {
	mock.lockUpdateRole.RLock()
	calls := mock.calls.UpdateRole
	mock.lockUpdateRole.RUnlock()
	return calls
}

func (mock *userRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if mock.ListUsersFunc == nil {
		panic("userRepoMock.ListUsersFunc: method is nil but userRepo.ListUsers was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Limit  int
		Offset int
	}{Ctx: ctx, Limit: limit, Offset: offset}
	mock.lockListUsers.Lock()
	mock.calls.ListUsers = append(mock.calls.ListUsers, callInfo)
	mock.lockListUsers.Unlock()
	return mock.ListUsersFunc(ctx, limit, offset)
}

func (mock *userRepoMock) ListUsersCalls() []struct {
	Ctx    context.Context
	Limit  int
	Offset int
} {
	mock.lockListUsers.RLock()
	calls := mock.calls.ListUsers
	mock.lockListUsers.RUnlock()
	return calls
}

func (mock *userRepoMock) CountUsers(ctx context.Context) (int, error) {
	if mock.CountUsersFunc == nil {
		panic("userRepoMock.CountUsersFunc: method is nil but userRepo.CountUsers was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockCountUsers.Lock()
	mock.calls.CountUsers = append(mock.calls.CountUsers, callInfo)
	mock.lockCountUsers.Unlock()
	return mock.CountUsersFunc(ctx)
}

func (mock *userRepoMock) CountUsersCalls() []struct {
	Ctx context.Context
} {
	mock.lockCountUsers.RLock()
	calls := mock.calls.CountUsers
	mock.lockCountUsers.RUnlock()
	return calls
}
