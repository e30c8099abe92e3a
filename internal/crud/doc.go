// Package crud implements the list/create/edit/delete page shared by every
// resource screen.
//
// A Page holds the list state of one resource, an optional modal and the
// form being edited. Mutations never touch Items directly: after a
// successful create, update or delete the current page is fetched again, so
// the list only ever shows what the server returned.
//
// A Page is bound to a context. Dispose cancels in-flight requests, and
// results that arrive after Dispose, or after a newer fetch started, are
// dropped.
package crud
