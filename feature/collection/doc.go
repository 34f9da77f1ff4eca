// Package collection exposes the record collections over HTTP.
//
// Every route lives under /api/{kind}, where kind is one of the registered collections
// (publications, galleries, portraits, covers, about):
//
//	GET    /api/{kind}         list records in display order
//	POST   /api/{kind}         create (or edit when the form carries an id)
//	GET    /api/{kind}/latest  read the record updated last (the about page)
//	GET    /api/{kind}/{id}    read one record
//	PUT    /api/{kind}/{id}    edit
//	DELETE /api/{kind}/{id}    delete the record and its images
//	PUT    /api/{kind}/order   write the display order
//
// Create and edit take a multipart form with id, title, body, existingRefs (a JSON array
// of image URLs the record keeps) and any number of images parts. Responses use the
// envelope {success, message, data}; a committed record answers data {id, urls}.
// The about collection is text only: title and body are required and images are refused.
package collection
