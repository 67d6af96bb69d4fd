// Package upload validates incoming files, stores them and keeps content
// documents and stored objects consistent when either side fails.
package upload

import "fmt"

const (
	kb = 1 << 10
	mb = 1 << 20
)

// Purpose describes what a file is for: where it goes and what is accepted.
type Purpose struct {
	Name    string
	Folder  string
	MaxSize int64
	Allowed []string
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var (
	Image    = Purpose{Name: "image", Folder: "images", MaxSize: 5 * mb, Allowed: imageTypes}
	Document = Purpose{Name: "document", Folder: "documents", MaxSize: 10 * mb, Allowed: []string{"application/pdf"}}
	Favicon  = Purpose{Name: "favicon", Folder: "favicons", MaxSize: 100 * kb,
		Allowed: []string{"image/x-icon", "image/vnd.microsoft.icon", "image/png", "image/svg+xml"}}
)

// ContentImage is the image rule stored under a content-owned folder
// (portfolio, services, blogs).
func ContentImage(folder string) Purpose {
	p := Image
	p.Folder = folder
	return p
}

// ValidationError reports a file rejected before anything was stored.
type ValidationError struct {
	Purpose string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s upload: %s", e.Purpose, e.Reason)
}
