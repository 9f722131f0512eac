// Package database opens the relational store and hosts the per-entity
// repositories in its subpackages. All consistency (unique usernames,
// owner references, pivot cascades) is delegated to the database itself;
// no application-level locks exist.
package database
