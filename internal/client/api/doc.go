// Package api implements the FOSYS backend HTTP API client: authentication,
// task CRUD, and the meeting-summary feed. The Client interface is the
// boundary the services layer depends on; HTTPClient is the production
// implementation. Tests substitute fakes.
package api
