package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/store/sqlite/uploads"
	"github.com/google/uuid"
)

// ErrNoCurrentUpload is returned by entity lookups when no upload exists yet.
var ErrNoCurrentUpload = fmt.Errorf("no upload available")

// ErrEntityNotFound is returned when the current upload has no entity with
// the requested id.
var ErrEntityNotFound = fmt.Errorf("entity not found")

// Explorer is the read/write surface over stored uploads: CRUD on uploads
// plus entity lookups inside the currently selected upload.
type Explorer interface {
	CreateUpload(ctx context.Context, name, filename string, size int64, account domain.Account) (domain.Upload, error)
	ListUploads(ctx context.Context) ([]domain.Upload, error)
	GetUpload(ctx context.Context, id string) (domain.Upload, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	DeleteUpload(ctx context.Context, id string) error
	CurrentUploadID(ctx context.Context) (string, error)
	SetCurrentUpload(ctx context.Context, id string) error

	GetUser(ctx context.Context, id string) (domain.User, error)
	GetRole(ctx context.Context, id string) (domain.Role, error)
	GetPolicy(ctx context.Context, id string) (domain.Policy, error)
	GetGroup(ctx context.Context, id string) (domain.Group, error)

	// CurrentPolicies returns the current upload's policies sorted by id,
	// the shape the analyzer's summary expects.
	CurrentPolicies(ctx context.Context) ([]domain.Policy, error)
}

type explorer struct {
	store uploads.Store
	now   func() time.Time
}

func NewExplorer(store uploads.Store) Explorer {
	return &explorer{store: store, now: time.Now}
}

func (e *explorer) CreateUpload(ctx context.Context, name, filename string, size int64, account domain.Account) (domain.Upload, error) {
	ds, err := adapters.MapAccountDomainToDataset(account)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("prepare dataset: %w", err)
	}

	upload := domain.Upload{
		ID:               uuid.NewString(),
		Name:             name,
		OriginalFilename: filename,
		UploadedAt:       e.now().UTC(),
		Size:             size,
	}
	if err := e.store.Create(ctx, adapters.MapUploadDomainToStore(upload), ds); err != nil {
		return domain.Upload{}, err
	}
	return upload, nil
}

func (e *explorer) ListUploads(ctx context.Context) ([]domain.Upload, error) {
	rows, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Upload, 0, len(rows))
	for _, row := range rows {
		result = append(result, adapters.MapUploadStoreToDomain(row))
	}
	return result, nil
}

func (e *explorer) GetUpload(ctx context.Context, id string) (domain.Upload, error) {
	row, err := e.store.Get(ctx, id)
	if err != nil {
		return domain.Upload{}, err
	}
	return adapters.MapUploadStoreToDomain(row), nil
}

func (e *explorer) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	ds, err := e.store.GetDataset(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	return adapters.MapDatasetStoreToDomain(ds), nil
}

func (e *explorer) DeleteUpload(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

func (e *explorer) CurrentUploadID(ctx context.Context) (string, error) {
	return e.store.CurrentID(ctx)
}

func (e *explorer) SetCurrentUpload(ctx context.Context, id string) error {
	return e.store.SetCurrent(ctx, id)
}

func (e *explorer) GetUser(ctx context.Context, id string) (domain.User, error) {
	account, err := e.currentAccount(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user, ok := account.Users[id]
	if !ok {
		return domain.User{}, ErrEntityNotFound
	}
	return user, nil
}

func (e *explorer) GetRole(ctx context.Context, id string) (domain.Role, error) {
	account, err := e.currentAccount(ctx)
	if err != nil {
		return domain.Role{}, err
	}
	role, ok := account.Roles[id]
	if !ok {
		return domain.Role{}, ErrEntityNotFound
	}
	return role, nil
}

func (e *explorer) GetPolicy(ctx context.Context, id string) (domain.Policy, error) {
	account, err := e.currentAccount(ctx)
	if err != nil {
		return domain.Policy{}, err
	}
	policy, ok := account.Policies[id]
	if !ok {
		return domain.Policy{}, ErrEntityNotFound
	}
	return policy, nil
}

func (e *explorer) GetGroup(ctx context.Context, id string) (domain.Group, error) {
	account, err := e.currentAccount(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	group, ok := account.Groups[id]
	if !ok {
		return domain.Group{}, ErrEntityNotFound
	}
	return group, nil
}

func (e *explorer) CurrentPolicies(ctx context.Context) ([]domain.Policy, error) {
	account, err := e.currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	policies := make([]domain.Policy, 0, len(account.Policies))
	for _, p := range account.Policies {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].PolicyID < policies[j].PolicyID
	})
	return policies, nil
}

func (e *explorer) currentAccount(ctx context.Context) (domain.Account, error) {
	id, err := e.store.CurrentID(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if id == "" {
		return domain.Account{}, ErrNoCurrentUpload
	}
	return e.GetAccount(ctx, id)
}
