package commit

// Kind is the policy of one record collection.
type Kind struct {
	// Name is the collection name used in routes and stored on records.
	Name string `json:"name"`
	// Folder is the storage folder holding the collection's blobs. Collections without a
	// folder are text only and accept no images.
	Folder string `json:"folder"`
	// TitleRequired rejects records without a title.
	TitleRequired bool `json:"title_required"`
	// MaxTitle caps the title length in characters. Zero means no cap.
	MaxTitle int `json:"max_title"`
	// BodyRequired rejects records whose body is blank.
	BodyRequired bool `json:"body_required"`
	// MinAssets is the lowest reference count a committed record may hold.
	MinAssets int `json:"min_assets"`
	// MaxAssets is the highest reference count a committed record may hold. Zero means
	// the upload batch cap is the only bound.
	MaxAssets int `json:"max_assets"`
}

// HasAssets reports whether records of the kind carry images.
func (k Kind) HasAssets() bool {
	return k.Folder != ""
}

// DefaultKinds returns the collections served by the site.
func DefaultKinds() []Kind {
	return []Kind{
		{Name: "publications", Folder: "blog_publications", TitleRequired: true, MaxTitle: 200, MinAssets: 1},
		{Name: "galleries", Folder: "displays", TitleRequired: true, MaxTitle: 200, MinAssets: 1},
		{Name: "portraits", Folder: "portraits", MaxTitle: 200, MinAssets: 1, MaxAssets: 1},
		{Name: "covers", Folder: "covers", TitleRequired: true, MaxTitle: 200, MaxAssets: 1},
		{Name: "about", TitleRequired: true, MaxTitle: 200, BodyRequired: true},
	}
}
