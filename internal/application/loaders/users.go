package loaders

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
)

// UserLoader batches profile lookups issued during one operation into a single GetByIDs
type UserLoader struct {
	loader *dataloader.Loader[string, *entities.User]
}

// NewUserLoader creates a loader backed by repo. Loaders cache results, so
// create one per operation rather than sharing them across requests.
func NewUserLoader(repo repositories.UserRepository) *UserLoader {
	batch := func(ctx context.Context, keys []string) []*dataloader.Result[*entities.User] {
		results := make([]*dataloader.Result[*entities.User], len(keys))
		users, err := repo.GetByIDs(ctx, keys)

		byID := make(map[string]*entities.User, len(users))
		if err == nil {
			for _, u := range users {
				byID[u.ID] = u
			}
		}

		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[*entities.User]{Error: err}
				continue
			}
			// Unknown ids resolve to nil rather than failing the whole batch.
			results[i] = &dataloader.Result[*entities.User]{Data: byID[key]}
		}
		return results
	}

	return &UserLoader{
		loader: dataloader.NewBatchedLoader(batch, dataloader.WithWait[string, *entities.User](2*time.Millisecond)),
	}
}

// Load returns a single profile, or nil when the user does not exist
func (l *UserLoader) Load(ctx context.Context, id string) (*entities.User, error) {
	return l.loader.Load(ctx, id)()
}

// LoadMap resolves ids to profiles. Duplicate and empty ids are ignored;
// unknown ids are absent from the map.
func (l *UserLoader) LoadMap(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	keys := dedupe(ids)
	out := make(map[string]*entities.User, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	users, errs := l.loader.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i, key := range keys {
		if i < len(users) && users[i] != nil {
			out[key] = users[i]
		}
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id)
	}
	return keys
}
