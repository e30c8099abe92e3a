// Package apitest runs an in-memory implementation of the health API for
// tests.
//
// The fake speaks the same envelope, pagination and bearer-token contract as
// the real service. State lives in memory and disappears with the Server.
// Helpers seed users and documents, revoke every session to simulate expiry,
// and inject one-shot failures:
//
//	srv, baseURL := apitest.Start(t)
//	_, token := srv.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
//	srv.FailNext(http.MethodGet, "/health-records", http.StatusInternalServerError, "boom")
package apitest
