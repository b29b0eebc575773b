package service

import (
	"context"
	"time"

	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory MaterialRepository stub ────────────────────────────────────────

type stubMaterialRepo struct {
	materials map[uuid.UUID]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materials: make(map[uuid.UUID]*model.Material)}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	return r.CreateTx(nil, m)
}

func (r *stubMaterialRepo) CreateTx(_ *gorm.DB, m *model.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	stored := *m
	r.materials[m.ID] = &stored
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) List(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMaterialRepo) ListLowStock(_ context.Context) ([]model.Material, error) {
	var out []model.Material
	for _, m := range r.materials {
		if m.IsLowStock() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *model.Material) error {
	if _, ok := r.materials[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *m
	r.materials[m.ID] = &stored
	return nil
}

func (r *stubMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.materials[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.materials, id)
	return nil
}

// FindByIDForUpdateTx returns a snapshot copy: the caller captures the
// "before" quantity from it, and AdjustQuantityTx mutates the stored row.
func (r *stubMaterialRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	m, ok := r.materials[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Quantity = m.Quantity.Add(delta)
	return nil
}

func (r *stubMaterialRepo) DB() *gorm.DB {
	// nil DB makes runTx invoke the callback directly — no transaction in
	// unit tests.
	return nil
}

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

// ── In-memory MovementRepository stub ────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) History(_ context.Context, materialID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].MaterialID == materialID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *stubMovementRepo) CountByMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.MaterialID == materialID {
			count++
		}
	}
	return count, nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── In-memory UnitRepository stub ────────────────────────────────────────────

type stubUnitRepo struct {
	units map[uuid.UUID]*model.Unit
}

func newStubUnitRepo() *stubUnitRepo {
	return &stubUnitRepo{units: make(map[uuid.UUID]*model.Unit)}
}

func (r *stubUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	out := make([]model.Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.UnitRepository = (*stubUnitRepo)(nil)

// ── In-memory SupplyRepository stub ──────────────────────────────────────────

type stubSupplyRepo struct {
	supplies map[uuid.UUID]*model.Supply
	items    []model.SupplyItem
	files    map[uuid.UUID]*model.SupplyFile
}

func newStubSupplyRepo() *stubSupplyRepo {
	return &stubSupplyRepo{
		supplies: make(map[uuid.UUID]*model.Supply),
		files:    make(map[uuid.UUID]*model.SupplyFile),
	}
}

func (r *stubSupplyRepo) CreateTx(_ *gorm.DB, s *model.Supply) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	stored := *s
	stored.Items = nil
	stored.Files = nil
	r.supplies[s.ID] = &stored
	return nil
}

func (r *stubSupplyRepo) CreateItemTx(_ *gorm.DB, item *model.SupplyItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *stubSupplyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supply, error) {
	s, ok := r.supplies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	for _, item := range r.items {
		if item.SupplyID == id {
			cp.Items = append(cp.Items, item)
		}
	}
	for _, f := range r.files {
		if f.SupplyID == id {
			cp.Files = append(cp.Files, *f)
		}
	}
	return &cp, nil
}

func (r *stubSupplyRepo) List(_ context.Context) ([]model.Supply, error) {
	out := make([]model.Supply, 0, len(r.supplies))
	for id := range r.supplies {
		s, _ := r.FindByID(context.Background(), id)
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplyRepo) Update(_ context.Context, s *model.Supply) error {
	if _, ok := r.supplies[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *s
	stored.Items = nil
	stored.Files = nil
	stored.Creator = nil
	r.supplies[s.ID] = &stored
	return nil
}

func (r *stubSupplyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.supplies[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.supplies, id)
	remaining := r.items[:0]
	for _, item := range r.items {
		if item.SupplyID != id {
			remaining = append(remaining, item)
		}
	}
	r.items = remaining
	for fid, f := range r.files {
		if f.SupplyID == id {
			delete(r.files, fid)
		}
	}
	return nil
}

func (r *stubSupplyRepo) AddFile(_ context.Context, f *model.SupplyFile) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	stored := *f
	r.files[f.ID] = &stored
	return nil
}

func (r *stubSupplyRepo) FindFile(_ context.Context, supplyID, fileID uuid.UUID) (*model.SupplyFile, error) {
	f, ok := r.files[fileID]
	if !ok || f.SupplyID != supplyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubSupplyRepo) DeleteFile(_ context.Context, fileID uuid.UUID) error {
	delete(r.files, fileID)
	return nil
}

func (r *stubSupplyRepo) DB() *gorm.DB { return nil }

var _ repository.SupplyRepository = (*stubSupplyRepo)(nil)

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.Active && !includeInactive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── In-memory NotificationRepository stub ────────────────────────────────────

type stubNotificationRepo struct {
	rows []model.Notification
}

func newStubNotificationRepo() *stubNotificationRepo { return &stubNotificationRepo{} }

func (r *stubNotificationRepo) CreateForRoles(_ context.Context, roles []string, senderID *uuid.UUID, title, message, ntype string) (int64, error) {
	// Role resolution needs a user table; unit tests insert rows directly.
	return 0, nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	var out []model.Notification
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) ListUnread(_ context.Context, userID uuid.UUID, limit int) ([]model.Notification, int64, error) {
	if limit < 1 {
		limit = 20
	}
	var out []model.Notification
	var count int64
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID && !r.rows[i].IsRead {
			count++
			if len(out) < limit {
				out = append(out, r.rows[i])
			}
		}
	}
	return out, count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) ClearRead(_ context.Context, userID uuid.UUID) error {
	remaining := r.rows[:0]
	for _, n := range r.rows {
		if n.UserID == userID && n.IsRead {
			continue
		}
		remaining = append(remaining, n)
	}
	r.rows = remaining
	return nil
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

// ── Shared helpers ───────────────────────────────────────────────────────────

func seedUnit(repo *stubUnitRepo, name, short string) *model.Unit {
	u := &model.Unit{ID: uuid.New(), Name: name, ShortName: short}
	repo.units[u.ID] = u
	return u
}

func seedMaterial(repo *stubMaterialRepo, unit *model.Unit, name string, qty, minQty decimal.Decimal) *model.Material {
	m := &model.Material{
		ID:          uuid.New(),
		Name:        name,
		UnitID:      unit.ID,
		Quantity:    qty,
		MinQuantity: minQty,
		Unit:        unit,
	}
	repo.materials[m.ID] = m
	return m
}

func testActor() Actor {
	return Actor{
		ID:       uuid.New(),
		Username: "storekeeper",
		FullName: "Sam Storekeeper",
		Role:     model.RoleManager,
	}
}
