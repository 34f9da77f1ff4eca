// Package record is the boundary to the relational store holding entity rows.
//
// A Record owns an ordered list of asset references. The Store interface offers
// get/insert/update/delete/list keyed by id and reports failures as ErrNotFound,
// ErrConflict or ErrUnavailable; GormStore implements it on MySQL or SQLite.
//
// The asset_refs column is a JSON array so the reference order survives a round trip.
package record
