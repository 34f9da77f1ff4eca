package commit

import (
	"media-manager/core/asset"
	"media-manager/core/upload"
)

// Principal is the authenticated caller. An empty ID means nobody is authenticated.
type Principal struct {
	ID string
}

// Authenticated reports whether p names a caller.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// Item is one entry of a submitted asset list: either a reference the record already
// holds or a file that still has to be uploaded.
type Item struct {
	ref     asset.Reference
	pending *upload.PendingFile
}

// Existing wraps a reference the client keeps.
func Existing(ref asset.Reference) Item {
	return Item{ref: ref}
}

// Pending wraps a file to upload.
func Pending(file upload.PendingFile) Item {
	return Item{pending: &file}
}

// Existing returns the kept reference, if the item is one.
func (i Item) Existing() (asset.Reference, bool) {
	return i.ref, i.pending == nil
}

// Pending returns the file to upload, if the item is one.
func (i Item) Pending() (upload.PendingFile, bool) {
	if i.pending == nil {
		return upload.PendingFile{}, false
	}
	return *i.pending, true
}

// Request is one create or edit of a record.
type Request struct {
	Principal Principal
	Kind      string
	// ID selects the record to edit. Empty creates a new record.
	ID    string
	Title string
	Body  string
	Items []Item
}

func (r Request) split() (retained []asset.Reference, pending []upload.PendingFile) {
	for _, item := range r.Items {
		if f, ok := item.Pending(); ok {
			pending = append(pending, f)
			continue
		}
		if ref, _ := item.Existing(); ref != "" {
			retained = append(retained, ref)
		}
	}
	return retained, pending
}

// Result describes a committed record.
type Result struct {
	ID string
	// Created is true when the commit inserted a new record.
	Created bool
	// Refs is the reference list the record now holds.
	Refs []asset.Reference
	// Removed lists the references whose blobs were scheduled for deletion.
	Removed []asset.Reference
	// Trail lists the states the commit went through.
	Trail []State
}
