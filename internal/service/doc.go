// Package service contains the application use cases: the task lifecycle
// (TaskService) and account registration and login (AuthService). It
// orchestrates domain rules from internal/domain and persistence through the
// interfaces in internal/store.
//
// Key points:
//
//   - Every TaskService method takes the caller's user id explicitly. A task
//     owned by someone else is reported exactly like a missing one.
//   - Updates are read-modify-write inside store.RunInTransaction with a row
//     lock, so concurrent edits of one task serialize.
//   - Time comes from an injectable clock; timestamps and the upcoming and
//     overdue windows are computed from it.
//   - Expected conditions are sentinel errors (ErrTaskNotFound,
//     ErrInvalidCredentials, ErrPasswordMismatch) or a *domain.ValidationError;
//     anything else is wrapped in TaskServiceError.
//
// The service layer depends on domain entities and store interfaces, never on
// a specific database implementation.
package service
