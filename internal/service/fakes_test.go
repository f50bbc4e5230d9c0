package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/cache"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/stretchr/testify/mock"
)

// memDB is an in-memory store whose single lock plays the role of the
// offer row lock taken by the pgx repository.
type memDB struct {
	mu        sync.Mutex
	seq       int64
	cars      map[int64]model.CarSnapshot
	offers    map[int64]model.OfferSnapshot
	apps      map[int64]model.ApplicationSnapshot
	agents    map[int64]model.SalesAgentSnapshot
	users     map[string]model.UserSnapshot
	interests map[int64]model.CarInterestSnapshot
}

func newMemDB() *memDB {
	return &memDB{
		cars:      map[int64]model.CarSnapshot{},
		offers:    map[int64]model.OfferSnapshot{},
		apps:      map[int64]model.ApplicationSnapshot{},
		agents:    map[int64]model.SalesAgentSnapshot{},
		users:     map[string]model.UserSnapshot{},
		interests: map[int64]model.CarInterestSnapshot{},
	}
}

func (db *memDB) next() int64 {
	db.seq++
	return db.seq
}

type memCars struct{ db *memDB }

func (r memCars) Create(_ context.Context, c *model.Car) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.cars {
		if s.VIN == c.VIN() {
			return model.ErrVINTaken
		}
	}
	c.SetID(r.db.next())
	r.db.cars[c.ID()] = c.Snapshot()
	return nil
}

func (r memCars) Update(_ context.Context, c *model.Car) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cars[c.ID()]; !ok {
		return model.ErrNotFound
	}
	r.db.cars[c.ID()] = c.Snapshot()
	return nil
}

func (r memCars) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cars[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.cars, id)
	return nil
}

func (r memCars) GetByID(_ context.Context, id int64) (*model.Car, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.cars[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return model.RestoreCar(s), nil
}

func (r memCars) Search(_ context.Context, f model.CarFilter) ([]*model.Car, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Car
	for _, s := range r.db.cars {
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Make+" "+s.Model), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, model.RestoreCar(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	total := len(out)
	start := min(f.Page.Offset(), total)
	end := min(start+f.Page.Size, total)
	return out[start:end], total, nil
}

func (r memCars) ListByOwner(_ context.Context, ownerID string) ([]*model.Car, error) {
	return r.filter(func(s model.CarSnapshot) bool { return s.OwnerID != nil && *s.OwnerID == ownerID }), nil
}

func (r memCars) ListBySalesAgent(_ context.Context, agentID int64) ([]*model.Car, error) {
	return r.filter(func(s model.CarSnapshot) bool { return s.SalesAgentID != nil && *s.SalesAgentID == agentID }), nil
}

func (r memCars) filter(keep func(model.CarSnapshot) bool) []*model.Car {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*model.Car{}
	for _, s := range r.db.cars {
		if keep(s) {
			out = append(out, model.RestoreCar(s))
		}
	}
	return out
}

func (r memCars) VINExists(_ context.Context, vin string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.cars {
		if s.VIN == vin {
			return true, nil
		}
	}
	return false, nil
}

type memOffers struct{ db *memDB }

func (r memOffers) Create(_ context.Context, o *model.Offer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o.SetID(r.db.next())
	r.db.offers[o.ID()] = o.Snapshot()
	return nil
}

func (r memOffers) Modify(_ context.Context, id int64, change func(*model.Offer) error) (*model.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.offers[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	o := model.RestoreOffer(s)
	if err := change(o); err != nil {
		return nil, err
	}
	r.db.offers[id] = o.Snapshot()
	return o, nil
}

func (r memOffers) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.offers[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.offers, id)
	return nil
}

func (r memOffers) GetByID(_ context.Context, id int64) (*model.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.offers[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return model.RestoreOffer(s), nil
}

func (r memOffers) ListByCar(_ context.Context, carID int64) ([]*model.Offer, error) {
	return r.filter(func(s model.OfferSnapshot) bool { return s.CarID == carID }), nil
}

func (r memOffers) ListBySalesAgent(_ context.Context, agentID int64) ([]*model.Offer, error) {
	return r.filter(func(s model.OfferSnapshot) bool { return s.SalesAgentID != nil && *s.SalesAgentID == agentID }), nil
}

func (r memOffers) ListActive(_ context.Context, now time.Time) ([]*model.Offer, error) {
	out := r.filter(func(s model.OfferSnapshot) bool {
		return s.IsActive && !now.Before(s.StartDate) && !now.After(s.EndDate)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].DiscountPercentage().GreaterThan(out[j].DiscountPercentage())
	})
	return out, nil
}

func (r memOffers) Search(_ context.Context, f model.OfferFilter, now time.Time) ([]*model.Offer, int, error) {
	out := r.filter(func(s model.OfferSnapshot) bool {
		if f.IsActive != nil {
			active := s.IsActive && !now.Before(s.StartDate) && !now.After(s.EndDate)
			if active != *f.IsActive {
				return false
			}
		}
		return f.CarID == nil || s.CarID == *f.CarID
	})
	return out, len(out), nil
}

func (r memOffers) filter(keep func(model.OfferSnapshot) bool) []*model.Offer {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*model.Offer{}
	for _, s := range r.db.offers {
		if keep(s) {
			out = append(out, model.RestoreOffer(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

type memApps struct {
	db *memDB
	// failOnce makes the next Submit lose a serialization race.
	failOnce bool
}

func (r *memApps) Submit(_ context.Context, app *model.OfferApplication, now time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.failOnce {
		r.failOnce = false
		return model.ErrConcurrentUpdate
	}
	s, ok := r.db.offers[app.OfferID()]
	if !ok {
		return model.ErrNotFound
	}
	for _, a := range r.db.apps {
		if a.OfferID == app.OfferID() && a.UserID == app.UserID() {
			return model.ErrAlreadyApplied
		}
	}
	offer := model.RestoreOffer(s)
	if err := offer.IncrementApplications(now); err != nil {
		return err
	}
	r.db.offers[offer.ID()] = offer.Snapshot()
	app.SetID(r.db.next())
	r.db.apps[app.ID()] = app.Snapshot()
	return nil
}

func (r *memApps) UpdateStatus(_ context.Context, app *model.OfferApplication) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.apps[app.ID()]
	if !ok || cur.Status != model.StatusPending {
		return model.ErrApplicationNotPending
	}
	r.db.apps[app.ID()] = app.Snapshot()
	return nil
}

func (r *memApps) GetByID(_ context.Context, id int64) (*model.OfferApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.apps[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return model.RestoreOfferApplication(s), nil
}

func (r *memApps) ListByOffer(_ context.Context, offerID int64) ([]*model.OfferApplication, error) {
	return r.filter(func(s model.ApplicationSnapshot) bool { return s.OfferID == offerID }), nil
}

func (r *memApps) ListByUser(_ context.Context, userID string) ([]*model.OfferApplication, error) {
	return r.filter(func(s model.ApplicationSnapshot) bool { return s.UserID == userID }), nil
}

func (r *memApps) ListPending(_ context.Context) ([]*model.OfferApplication, error) {
	return r.filter(func(s model.ApplicationSnapshot) bool { return s.Status == model.StatusPending }), nil
}

func (r *memApps) filter(keep func(model.ApplicationSnapshot) bool) []*model.OfferApplication {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*model.OfferApplication{}
	for _, s := range r.db.apps {
		if keep(s) {
			out = append(out, model.RestoreOfferApplication(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

type memAgents struct{ db *memDB }

func (r memAgents) Create(_ context.Context, a *model.SalesAgent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.SetID(r.db.next())
	r.db.agents[a.ID()] = a.Snapshot()
	return nil
}

func (r memAgents) Update(_ context.Context, a *model.SalesAgent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.agents[a.ID()]; !ok {
		return model.ErrNotFound
	}
	r.db.agents[a.ID()] = a.Snapshot()
	return nil
}

func (r memAgents) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.agents[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.agents, id)
	return nil
}

func (r memAgents) GetByID(_ context.Context, id int64) (*model.SalesAgent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.agents[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return model.RestoreSalesAgent(s), nil
}

func (r memAgents) GetByUserID(_ context.Context, userID string) (*model.SalesAgent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.agents {
		if s.UserID != nil && *s.UserID == userID {
			return model.RestoreSalesAgent(s), nil
		}
	}
	return nil, model.ErrNotFound
}

func (r memAgents) Search(_ context.Context, f model.SalesAgentFilter) ([]model.AgentWithCars, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.AgentWithCars{}
	for _, s := range r.db.agents {
		n := 0
		for _, c := range r.db.cars {
			if c.SalesAgentID != nil && *c.SalesAgentID == s.ID {
				n++
			}
		}
		out = append(out, model.AgentWithCars{SalesAgentSnapshot: s, AssignedCars: n})
	}
	return out, len(out), nil
}

func (r memAgents) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.agents {
		if strings.EqualFold(s.Email, email) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memAgents) UserIDExists(_ context.Context, userID string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.agents {
		if s.UserID != nil && *s.UserID == userID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.users {
		if s.Email == u.Email() {
			return model.ErrEmailTaken
		}
	}
	r.db.users[u.ID()] = u.Snapshot()
	return nil
}

func (r memUsers) Update(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID()]; !ok {
		return model.ErrNotFound
	}
	r.db.users[u.ID()] = u.Snapshot()
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return model.RestoreUser(s), nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.users {
		if strings.EqualFold(s.Email, email) {
			return model.RestoreUser(s), nil
		}
	}
	return nil, model.ErrNotFound
}

func (r memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) List(_ context.Context) ([]*model.User, error) {
	return r.filter(func(model.UserSnapshot) bool { return true }), nil
}

func (r memUsers) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	return r.filter(func(s model.UserSnapshot) bool { return s.Role == role }), nil
}

func (r memUsers) filter(keep func(model.UserSnapshot) bool) []*model.User {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*model.User{}
	for _, s := range r.db.users {
		if keep(s) {
			out = append(out, model.RestoreUser(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out
}

type memInterests struct{ db *memDB }

func (r memInterests) Create(_ context.Context, i *model.CarInterest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i.SetID(r.db.next())
	r.db.interests[i.ID()] = i.Snapshot()
	return nil
}

func (r memInterests) ListByCar(_ context.Context, carID int64) ([]model.InterestView, error) {
	return r.filter(func(s model.CarInterestSnapshot) bool { return s.CarID == carID }), nil
}

func (r memInterests) ListByUser(_ context.Context, userID string) ([]model.InterestView, error) {
	return r.filter(func(s model.CarInterestSnapshot) bool { return s.UserID == userID }), nil
}

func (r memInterests) ListRecent(_ context.Context, f model.InterestFilter, now time.Time) ([]model.InterestView, error) {
	since := now.AddDate(0, 0, -f.Days)
	out := r.filter(func(s model.CarInterestSnapshot) bool { return !s.CreatedAt.Before(since) })
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memInterests) filter(keep func(model.CarInterestSnapshot) bool) []model.InterestView {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.InterestView{}
	for _, s := range r.db.interests {
		if keep(s) {
			out = append(out, model.InterestView{CarInterestSnapshot: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// mockPublisher records published events.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

// mockCache is a testify mock of CarCache.
type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id int64) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, c *model.Car) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ CarCache = cache.Noop{}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(h, p string) bool      { return h == "hashed:"+p }

type stubTokens struct{}

func (stubTokens) Generate(u *model.User, now time.Time) (string, time.Time, error) {
	return "token-" + u.ID(), now.Add(time.Hour), nil
}
