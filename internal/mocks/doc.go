// Package mocks provides shared test doubles for the service and store
// interfaces.
//
// Two styles are used. Function-field mocks (MockTokenService,
// MockPasswordVerifier, MockHolidayStore) fall back to fixed default values
// when no function is set. Store mocks built on testify/mock
// (MockInternStore, MockBookingStore) are configured with On(...).Return(...)
// and checked with AssertExpectations.
//
//	tokens := &mocks.MockTokenService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrInvalidToken
//	    },
//	}
package mocks
