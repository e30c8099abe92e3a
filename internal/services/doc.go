// Package services maps each health platform resource to a thin wrapper
// over the API client.
//
// Functions map 1:1 to endpoints. Wrappers do not validate, retry or cache,
// and errors from the client are returned unchanged. The exceptions are
// session side effects: Auth saves the session on login and register and
// always clears it on logout, and Users.UpdateProfile refreshes the cached
// profile.
//
// Use NewRegistry to build every wrapper over one client, then the accessor
// methods to reach individual resources.
package services
