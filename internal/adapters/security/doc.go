// Package security implements the credential and access-control ports:
// signed auth tokens, password hashing and the role policy enforcer.
package security
