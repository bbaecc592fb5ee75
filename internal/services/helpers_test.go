package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
)

// recordedEvent is one call into the recording broadcaster.
type recordedEvent struct {
	Type    string
	Payload interface{}
	UserIDs []uint64 // nil for broadcasts
}

// recordingBroadcaster captures every event a service emits so tests can
// assert exactly one event per mutation and none on failure.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(ctx context.Context, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Type: eventType, Payload: payload})
}

func (b *recordingBroadcaster) NotifyUsers(ctx context.Context, userIDs []uint64, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Type: eventType, Payload: payload, UserIDs: userIDs})
}

func (b *recordingBroadcaster) Events() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}

func (b *recordingBroadcaster) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

// recordingAudit captures audit entries without a database.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(ctx context.Context, actorID uint64, action, entityType string, entityID *uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *recordingAudit) GetLogs(ctx context.Context, filter types.Filter) ([]dto.AuditLogDTO, uint64, error) {
	return nil, 0, nil
}

func (a *recordingAudit) ExportLogs(ctx context.Context) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func (a *recordingAudit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

// fakeTxManager just runs the callback; the fakes have no transactions
// to roll back, so tests assert on side effects instead.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User)}
}

func (r *fakeUserRepo) add(user *entities.User) *entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.UserDTO, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, UserToDTO(u))
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, q repositories.Querier, username, passwordHash string, role constants.Role) (*entities.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Username == username {
			r.mu.Unlock()
			return nil, apperrors.ErrConflict
		}
	}
	r.mu.Unlock()
	return r.add(&entities.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}), nil
}

func (r *fakeUserRepo) ApplyRole(ctx context.Context, q repositories.Querier, id uint64, role constants.Role) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u.Role = role
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, id uint64, role *string, active *bool, passwordHash *string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if role != nil {
		u.Role = constants.Role(*role)
	}
	if active != nil {
		u.Active = *active
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint64, 0, len(r.users))
	for id, u := range r.users {
		if u.Active {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeInviteRepo struct {
	mu     sync.Mutex
	nextID uint64
	codes  map[string]*entities.InviteCode
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{codes: make(map[string]*entities.InviteCode)}
}

func (r *fakeInviteRepo) add(code string, role constants.Role) *entities.InviteCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entity := &entities.InviteCode{ID: r.nextID, Code: code, Role: role, CreatedBy: 1, CreatedAt: time.Now()}
	r.codes[code] = entity
	return entity
}

func (r *fakeInviteRepo) GetInviteCodes(ctx context.Context, filter types.Filter) ([]dto.InviteCodeDTO, uint64, error) {
	return []dto.InviteCodeDTO{}, 0, nil
}

func (r *fakeInviteRepo) FindByCode(ctx context.Context, code string) (*entities.InviteCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.codes[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *entity
	return &copied, nil
}

func (r *fakeInviteRepo) CreateInviteCode(ctx context.Context, code string, role constants.Role, createdBy uint64) (*dto.InviteCodeDTO, error) {
	r.mu.Lock()
	if _, exists := r.codes[code]; exists {
		r.mu.Unlock()
		return nil, apperrors.ErrConflict
	}
	r.mu.Unlock()
	entity := r.add(code, role)
	entity.CreatedBy = createdBy
	return &dto.InviteCodeDTO{ID: entity.ID, Code: code, Role: string(role), CreatedBy: createdBy}, nil
}

func (r *fakeInviteRepo) ConsumeCode(ctx context.Context, q repositories.Querier, code string, usedBy uint64) (*entities.InviteCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.codes[code]
	if !ok {
		return nil, apperrors.ErrInviteCodeInvalid
	}
	if entity.Used {
		return nil, apperrors.ErrInviteCodeUsed
	}
	entity.Used = true
	copied := *entity
	return &copied, nil
}

func (r *fakeInviteRepo) DeleteInviteCode(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, entity := range r.codes {
		if entity.ID == id {
			delete(r.codes, code)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]uint64
	lastTTL  time.Duration
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]uint64)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = userID
	r.lastTTL = ttl
	return nil
}

func (r *fakeSessionRepo) GetUserID(ctx context.Context, token string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.sessions[token]
	if !ok {
		return 0, apperrors.ErrSessionNotFound
	}
	return userID, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// adminActor and customerActor are common test identities.
func adminActor(id uint64) *entities.User {
	return &entities.User{ID: id, Username: "admin", Role: constants.RoleAdmin, Active: true}
}

func customerActor(id uint64) *entities.User {
	return &entities.User{ID: id, Username: "customer", Role: constants.RoleCustomer, Active: true}
}
