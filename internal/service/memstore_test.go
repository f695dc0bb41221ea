package service

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/repository"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// memStore is an in-memory repository.UnitOfWork for scenario tests.
// Transactions snapshot the maps and restore them on error.
type memStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	folders  map[string]domain.Folder
	links    map[[2]string]domain.ProductFolder
	users    map[string]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]domain.Product{},
		folders:  map[string]domain.Folder{},
		links:    map[[2]string]domain.ProductFolder{},
		users:    map[string]domain.User{},
	}
}

func (m *memStore) Products() repository.ProductRepository             { return memProducts{m} }
func (m *memStore) Folders() repository.FolderRepository               { return memFolders{m} }
func (m *memStore) ProductFolders() repository.ProductFolderRepository { return memLinks{m} }
func (m *memStore) Users() repository.UserRepository                   { return memUsers{m} }

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	m.mu.Lock()
	products, folders, links, users := maps.Clone(m.products), maps.Clone(m.folders), maps.Clone(m.links), maps.Clone(m.users)
	m.mu.Unlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.products, m.folders, m.links, m.users = products, folders, links, users
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) product(id string) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id]
}

func (m *memStore) linkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links)
}

type memProducts struct{ m *memStore }

func (r memProducts) Create(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (r memProducts) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProducts) UpdateMyPrice(_ context.Context, id string, myPrice int, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	p.MyPrice, p.ModifiedAt = myPrice, at
	r.m.products[id] = p
	return nil
}

func (r memProducts) UpdateFromLookup(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.products[p.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", p.ID, apperrors.ErrNotFound)
	}
	stored.Title, stored.Link, stored.LowestPrice, stored.ModifiedAt = p.Title, p.Link, p.LowestPrice, p.ModifiedAt
	r.m.products[p.ID] = stored
	return nil
}

func (r memProducts) List(_ context.Context, q repository.ProductQuery) ([]domain.Product, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var matched []domain.Product
	for _, p := range r.m.products {
		if q.OwnerID != nil && !p.OwnedBy(*q.OwnerID) {
			continue
		}
		if q.FolderID != nil {
			if _, ok := r.m.links[[2]string{p.ID, *q.FolderID}]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		c := compareColumn(q.SortColumn, a, b)
		if c == 0 {
			c = compareStrings(a.ID, b.ID)
		}
		if q.Asc {
			return c < 0
		}
		return c > 0
	})

	total := len(matched)
	start := min(q.Offset, total)
	end := min(q.Offset+q.Limit, total)
	return append([]domain.Product{}, matched[start:end]...), total, nil
}

func (r memProducts) ListAll(_ context.Context) ([]domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	all := make([]domain.Product, 0, len(r.m.products))
	for _, p := range r.m.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func compareColumn(column string, a, b domain.Product) int {
	switch column {
	case "title":
		return compareStrings(a.Title, b.Title)
	case "link":
		return compareStrings(a.Link, b.Link)
	case "lowest_price":
		return a.LowestPrice - b.LowestPrice
	case "my_price":
		return a.MyPrice - b.MyPrice
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "modified_at":
		return a.ModifiedAt.Compare(b.ModifiedAt)
	default:
		return compareStrings(a.ID, b.ID)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type memFolders struct{ m *memStore }

func (r memFolders) Create(_ context.Context, f *domain.Folder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.folders {
		if existing.UserID == f.UserID && existing.Name == f.Name {
			return domain.ErrDuplicateFolderName(f.Name)
		}
	}
	r.m.folders[f.ID] = *f
	return nil
}

func (r memFolders) GetByID(_ context.Context, id string) (*domain.Folder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, apperrors.ErrNotFound)
	}
	return &f, nil
}

func (r memFolders) ExistingNames(_ context.Context, userID string, names []string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var existing []string
	for _, f := range r.m.folders {
		for _, n := range names {
			if f.UserID == userID && f.Name == n {
				existing = append(existing, n)
			}
		}
	}
	sort.Strings(existing)
	return existing, nil
}

func (r memFolders) ListByUser(_ context.Context, userID string) ([]domain.Folder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	folders := make([]domain.Folder, 0)
	for _, f := range r.m.folders {
		if f.UserID == userID {
			folders = append(folders, f)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

type memLinks struct{ m *memStore }

func (r memLinks) Exists(_ context.Context, productID, folderID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.links[[2]string{productID, folderID}]
	return ok, nil
}

func (r memLinks) Create(_ context.Context, link *domain.ProductFolder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := [2]string{link.ProductID, link.FolderID}
	if _, ok := r.m.links[key]; ok {
		return domain.ErrDuplicateProductFolder()
	}
	r.m.links[key] = *link
	return nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[u.Username] = *u
	return nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}
	return &u, nil
}

func (r memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.users[username]
	return ok, nil
}

func (r memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
