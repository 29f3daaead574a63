// Package mocks provides gomock implementations of the ports used by the journey service.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockStateStore(ctrl)
//	store.EXPECT().Load(gomock.Any(), "scope", ports.KeyJourneyState).Return(nil, ports.ErrNotFound)
package mocks

// StateStore: Load, Save, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=state_store_mock.go github.com/luminara/journey-api/internal/ports StateStore

// Authenticator: Authenticate, Register
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/luminara/journey-api/internal/ports Authenticator

// FederatedProvider: Begin, Exchange
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=federated_provider_mock.go github.com/luminara/journey-api/internal/ports FederatedProvider
