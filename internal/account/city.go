package account

import (
	"context"
	"sync"

	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/store"
)

// CityPreference is the persisted "selected city" with change
// notification for in-process observers.
type CityPreference struct {
	meta *repository.MetaRepo

	mu     sync.Mutex
	nextID int
	subs   map[int]func(string)
}

func NewCityPreference(s *store.Store) *CityPreference {
	return &CityPreference{meta: repository.NewMetaRepo(s), subs: make(map[int]func(string))}
}

// Get returns the selected city, empty when none is selected.
func (p *CityPreference) Get(ctx context.Context) (string, error) {
	return p.meta.SelectedCity(ctx)
}

// Set persists city and notifies subscribers.  Subscribers are called
// synchronously after the write succeeds.
func (p *CityPreference) Set(ctx context.Context, city string) error {
	if city == "" {
		return p.Clear(ctx)
	}
	if err := p.meta.SetSelectedCity(ctx, city); err != nil {
		return err
	}
	p.notify(city)
	return nil
}

// Clear removes the selection and notifies subscribers with "".
func (p *CityPreference) Clear(ctx context.Context) error {
	if err := p.meta.ClearSelectedCity(ctx); err != nil {
		return err
	}
	p.notify("")
	return nil
}

// Subscribe registers fn for future changes and returns a function that
// removes it.
func (p *CityPreference) Subscribe(fn func(city string)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *CityPreference) notify(city string) {
	p.mu.Lock()
	fns := make([]func(string), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(city)
	}
}
