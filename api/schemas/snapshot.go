// File: api/schemas/snapshot.go
package schemas

// PageSnapshot is a self-contained, serializable representation of the hosted
// page's state. When capture fails, only Error is populated; every other
// field is meaningful only when Error is empty. The HTML field always holds a
// full standalone document containing a <base href> matching BaseHref, so
// relative references in the exported markup resolve the same way they do on
// the live page.
type PageSnapshot struct {
	URL          string              `json:"url"`
	Origin       string              `json:"origin"`
	Path         string              `json:"path"`
	PathSegments []string            `json:"pathSegments"`
	BaseHref     string              `json:"baseHref"`
	Title        string              `json:"title"`
	HTML         string              `json:"html"`
	Resources    []ResourceReference `json:"resources"`
	Iframes      []IframeSnapshot    `json:"iframes"`
	Error        string              `json:"error,omitempty"`
}

// IsError reports whether this snapshot is the error variant.
func (s *PageSnapshot) IsError() bool {
	return s != nil && s.Error != ""
}

// ErrorSnapshot builds the error variant of a PageSnapshot.
func ErrorSnapshot(msg string) *PageSnapshot {
	return &PageSnapshot{Error: msg}
}

// ResourceReference records one (tag, attribute) hit from the resource walk.
// Absolute is the best-effort resolution of Value against the page's base
// href; when resolution fails it carries the raw value unchanged.
type ResourceReference struct {
	Tag      string `json:"tag"`
	Attr     string `json:"attr"`
	Value    string `json:"value"`
	Absolute string `json:"absolute"`
}

// IframeSnapshot captures one iframe. HTML is empty whenever SameOrigin is
// false or extraction was blocked.
type IframeSnapshot struct {
	Src        string `json:"src"`
	Absolute   string `json:"absolute"`
	SameOrigin bool   `json:"sameOrigin"`
	HTML       string `json:"html"`
}
