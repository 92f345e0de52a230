// Package mocks provides centralized mock implementations for testing.
//
// Store and service mocks embed testify's mock.Mock and are configured with
// On(...).Return(...). Token and password mocks use function fields instead,
// which keeps table-driven handler tests short:
//
//	jwtSvc := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{Username: "alice", UserID: 1}, nil
//	    },
//	}
package mocks
