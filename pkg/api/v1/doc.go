// Package v1 defines the wire types of the health platform API: the
// response envelope, pagination, every resource the client reads or writes,
// and typed form inputs with client-side validation.
//
// The API owns all of this data. Values here are a cache that is replaced
// by refetching after every mutation.
package v1
