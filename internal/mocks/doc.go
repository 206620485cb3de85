// Package mocks provides shared test doubles for the service and
// collaborator interfaces.
//
// Each mock has a function field per method. When the field is nil the mock
// returns its default values, so tests only set what they exercise:
//
//	places := &mocks.MockPlaceService{
//	    GetPlaceFn: func(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
//	        return place, nil
//	    },
//	}
//
// MockAssetStore and MockGeocoder keep state in memory and record calls.
package mocks
