// Package service contains the application use cases: intern registration
// and login, and booking management scoped to the verified intern.
//
// Services receive their stores through constructor injection and depend
// only on the interfaces in internal/store. Expected conditions are
// reported as sentinel errors (ErrNotOwned, auth.ErrInvalidCredentials,
// store.ErrBookingNotFound, ...) that the API layer maps to status codes.
package service
