package collaborators

import (
	"context"
	"errors"
	"sort"

	"github.com/cantrip-core/server/internal/agent/model"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// resultCap bounds every list an adapter returns.
const resultCap = 20

// Adapter fetches one kind of travel data for a city. Fetch never fails:
// a broken upstream and an empty answer both come back as an empty Result
// (weather returns fallback data instead).
type Adapter interface {
	Name() model.Collaborator
	Fetch(ctx context.Context, city string, filters model.Filters) model.Result
}

// Registry is the fixed set of adapters built at startup.
type Registry struct {
	adapters map[model.Collaborator]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[model.Collaborator]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Get(name model.Collaborator) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names lists the registered collaborators, sorted.
func (r *Registry) Names() []model.Collaborator {
	out := make([]model.Collaborator, 0, len(r.adapters))
	for n := range r.adapters {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// guard runs fetch and converts errors and panics into fallback().
func guard(ctx context.Context, name model.Collaborator, city string, fetch func() (model.Result, error), fallback func() model.Result) (res model.Result) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().
				Str("collaborator", string(name)).
				Str("city", city).
				Interface("panic", r).
				Msg("collaborator panicked")
			res = fallback()
		}
	}()

	res, err := fetch()
	if err != nil {
		err = errx.AdapterFailure(string(name), err)
		logx.Warn().Err(err).
			Str("collaborator", string(name)).
			Str("city", city).
			Msg("collaborator failed, degrading")
		return fallback()
	}
	if ctx.Err() != nil {
		logx.Warn().Err(ctx.Err()).Str("collaborator", string(name)).Msg("collaborator context done")
	}
	return res
}

func empty(name model.Collaborator) func() model.Result {
	return func() model.Result { return model.EmptyResult(name) }
}

func capped[S ~[]E, E any](in S) S {
	if len(in) > resultCap {
		return in[:resultCap]
	}
	return in
}

// errNoCity is returned by adapters that cannot answer without a location.
var errNoCity = errors.New("city is required")
