// Package api handles incoming HTTP requests for the task board: request
// decoding and validation, calls into the auth and task services, and
// translation of their results and errors into JSON responses.
package api
