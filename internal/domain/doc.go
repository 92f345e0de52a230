// Package domain contains the core business entities of the task board:
// users and the tasks they own. It holds the task lifecycle rules (defaults,
// length limits, status and priority parsing, the completion timestamp) and
// is independent of storage and transport.
package domain
