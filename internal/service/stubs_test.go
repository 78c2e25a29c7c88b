package service

import (
	"context"
	"sort"
	"time"

	"agrocrm/internal/dto"
	"agrocrm/internal/model"
	"agrocrm/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// The stubs mimic only the behavior services rely on: record-not-found and
// duplicated-key errors, live-row scoping, and the derived area sum.

type stubLeadRepo struct {
	leads map[uuid.UUID]*model.Lead
}

var _ repository.LeadRepository = (*stubLeadRepo)(nil)

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{leads: make(map[uuid.UUID]*model.Lead)}
}

func (r *stubLeadRepo) Create(_ context.Context, l *model.Lead) error {
	for _, existing := range r.leads {
		if existing.CPF == l.CPF {
			return gorm.ErrDuplicatedKey
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.leads[l.ID] = l
	return nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLeadRepo) FindByCPF(_ context.Context, cpf string) (*model.Lead, error) {
	for _, l := range r.leads {
		if l.CPF == cpf {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLeadRepo) FindAll(_ context.Context) ([]model.Lead, error) {
	out := r.all()
	return out, nil
}

func (r *stubLeadRepo) all() []model.Lead {
	out := make([]model.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubLeadRepo) List(_ context.Context, f dto.LeadFilter) ([]model.Lead, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *stubLeadRepo) Update(_ context.Context, l *model.Lead) error {
	if _, ok := r.leads[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range r.leads {
		if existing.ID != l.ID && existing.CPF == l.CPF {
			return gorm.ErrDuplicatedKey
		}
	}
	l.UpdatedAt = time.Now()
	cp := *l
	r.leads[l.ID] = &cp
	return nil
}

func (r *stubLeadRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.leads, id)
	return nil
}

func (r *stubLeadRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.leads)), nil
}

func (r *stubLeadRepo) CountByStatus(_ context.Context, status model.LeadStatus) (int64, error) {
	var n int64
	for _, l := range r.leads {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubLeadRepo) StatsByStatus(_ context.Context) ([]dto.StatusCount, error) {
	counts := map[string]int64{}
	for _, l := range r.leads {
		counts[string(l.Status)]++
	}
	out := make([]dto.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, dto.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *stubLeadRepo) StatsByCity(_ context.Context, limit int) ([]dto.CityCount, error) {
	counts := map[string]int64{}
	for _, l := range r.leads {
		counts[l.City]++
	}
	out := make([]dto.CityCount, 0, len(counts))
	for city, n := range counts {
		out = append(out, dto.CityCount{City: city, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubLeadRepo) FindPriority(_ context.Context, minArea decimal.Decimal, limit int) ([]model.Lead, error) {
	var out []model.Lead
	for _, l := range r.leads {
		if l.SumPropertyAreas().GreaterThanOrEqual(minArea) {
			cp := *l
			cp.TotalAreaHectares = cp.SumPropertyAreas()
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalAreaHectares.GreaterThan(out[j].TotalAreaHectares)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubLeadRepo) CountPriority(ctx context.Context, minArea decimal.Decimal) (int64, error) {
	leads, _ := r.FindPriority(ctx, minArea, 0)
	return int64(len(leads)), nil
}

func (r *stubLeadRepo) FindRecent(_ context.Context, days int) ([]model.Lead, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var out []model.Lead
	for _, l := range r.leads {
		if l.CreatedAt.After(threshold) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLeadRepo) FindWithoutContact(_ context.Context, days int) ([]model.Lead, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var out []model.Lead
	for _, l := range r.leads {
		if l.LastInteraction == nil || l.LastInteraction.Before(threshold) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLeadRepo) CountWithoutContact(ctx context.Context, days int) (int64, error) {
	leads, _ := r.FindWithoutContact(ctx, days)
	return int64(len(leads)), nil
}

func (r *stubLeadRepo) TotalAreaByLead(_ context.Context, leadID uuid.UUID) (decimal.Decimal, error) {
	l, ok := r.leads[leadID]
	if !ok {
		return decimal.Zero, nil
	}
	return l.SumPropertyAreas(), nil
}

type stubPropertyRepo struct {
	props map[uuid.UUID]*model.Property
}

var _ repository.PropertyRepository = (*stubPropertyRepo)(nil)

func newStubPropertyRepo() *stubPropertyRepo {
	return &stubPropertyRepo{props: make(map[uuid.UUID]*model.Property)}
}

func (r *stubPropertyRepo) Create(_ context.Context, p *model.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.props[p.ID] = p
	return nil
}

func (r *stubPropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Property, error) {
	p, ok := r.props[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPropertyRepo) FindByLeadID(_ context.Context, leadID uuid.UUID) ([]model.Property, error) {
	var out []model.Property
	for _, p := range r.props {
		if p.LeadID == leadID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPropertyRepo) List(_ context.Context, f dto.PropertyFilter) ([]model.Property, int64, error) {
	out := make([]model.Property, 0, len(r.props))
	for _, p := range r.props {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPropertyRepo) Update(_ context.Context, p *model.Property) error {
	if _, ok := r.props[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.props[p.ID] = &cp
	return nil
}

func (r *stubPropertyRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.props, id)
	return nil
}

func (r *stubPropertyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.props)), nil
}

func (r *stubPropertyRepo) TotalArea(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.props {
		total = total.Add(p.AreaHectares)
	}
	return total, nil
}

func (r *stubPropertyRepo) FindLarge(_ context.Context, minArea decimal.Decimal, limit int) ([]model.Property, error) {
	var out []model.Property
	for _, p := range r.props {
		if p.AreaHectares.GreaterThanOrEqual(minArea) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AreaHectares.GreaterThan(out[j].AreaHectares)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPropertyRepo) FindWithLocation(_ context.Context, f dto.PropertyFilter) ([]model.Property, error) {
	var out []model.Property
	for _, p := range r.props {
		if (p.Latitude != nil && p.Longitude != nil) || len(p.Geometry) > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPropertyRepo) StatsByCropType(_ context.Context) ([]dto.CropAreaSum, error) {
	sums := map[string]decimal.Decimal{}
	for _, p := range r.props {
		sums[string(p.CropType)] = sums[string(p.CropType)].Add(p.AreaHectares)
	}
	out := make([]dto.CropAreaSum, 0, len(sums))
	for crop, total := range sums {
		out = append(out, dto.CropAreaSum{CropType: crop, TotalArea: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalArea.GreaterThan(out[j].TotalArea) })
	return out, nil
}

type stubUserRepo struct {
	users map[string]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Email] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// stubNotifier records conversion notifications.
type stubNotifier struct {
	calls []string
	err   error
}

func (n *stubNotifier) NotifyConversion(_ context.Context, leadName, _ string, _ decimal.Decimal) error {
	n.calls = append(n.calls, leadName)
	return n.err
}
