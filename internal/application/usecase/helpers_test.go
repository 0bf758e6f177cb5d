package usecase_test

import (
	"context"

	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/infrastructure/persistence/memory"
	"github.com/bnema/careshell/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeRouter records navigations and follows them like a browser would.
type fakeRouter struct {
	location    string
	navigations []string
}

func (r *fakeRouter) CurrentLocation(context.Context) string { return r.location }

func (r *fakeRouter) NavigateTo(_ context.Context, href string) {
	r.navigations = append(r.navigations, href)
	r.location = href
}

func (r *fakeRouter) lastNavigation() string {
	if len(r.navigations) == 0 {
		return ""
	}
	return r.navigations[len(r.navigations)-1]
}

type registryFixture struct {
	registry  *usecase.TabRegistry
	router    *fakeRouter
	store     *memory.Store
	snapshots *usecase.TabSnapshotStore
}

func newRegistryFixture(location string) *registryFixture {
	router := &fakeRouter{location: location}
	store := memory.NewStore()
	snapshots := usecase.NewTabSnapshotStore(store, "test.tabs", nil)
	registry := usecase.NewTabRegistry(usecase.TabRegistryConfig{
		Snapshots:  snapshots,
		Location:   usecase.NewLocationSync(router),
		Namespaces: entity.NewNamespaces(nil, ""),
	})
	return &registryFixture{
		registry:  registry,
		router:    router,
		store:     store,
		snapshots: snapshots,
	}
}

func tabSet(active string, hrefs ...string) *entity.TabSet {
	ts := entity.NewTabSet()
	for _, h := range hrefs {
		ts.Append(entity.NewTab(h, "title "+h))
	}
	if active != "" {
		ts.SetActive(entity.TabID(active))
	}
	return ts
}
