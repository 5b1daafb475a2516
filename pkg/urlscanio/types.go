package urlscanio

import "encoding/json"

// Visibility controls who can see a submitted scan on urlscan.io.
type Visibility string

const (
	// VisibilityPublic makes the scan visible on the public feed.
	VisibilityPublic Visibility = "public"
	// VisibilityUnlisted hides the scan from the public feed but keeps the
	// result reachable by anyone holding its URL.
	VisibilityUnlisted Visibility = "unlisted"
	// VisibilityPrivate restricts the scan to the submitting account.
	VisibilityPrivate Visibility = "private"
)

// SubmitOptions carries the optional fields of a scan submission. The zero
// value omits everything, leaving the choices to the remote service.
type SubmitOptions struct {
	// Visibility of the resulting scan.
	Visibility Visibility
	// Tags to attach to the scan for later retrieval.
	Tags []string
	// CustomAgent overrides the User-Agent header used during the scan.
	CustomAgent string
	// Referer sets the HTTP referer sent while scanning.
	Referer string
	// OverrideSafety, when non-empty, disables reclassification of the
	// submitted URL by the remote service.
	OverrideSafety string
	// Country is the two-letter code of the country to scan from.
	Country string
}

// scanRequest is the JSON body sent to the scan submission endpoint.
// https://docs.urlscan.io/apis/urlscan-openapi/scanning/submitscan
type scanRequest struct {
	URL            string     `json:"url"`
	Visibility     Visibility `json:"visibility,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	CustomAgent    string     `json:"customagent,omitempty"`
	Referer        string     `json:"referer,omitempty"`
	OverrideSafety string     `json:"overrideSafety,omitempty"`
	Country        string     `json:"country,omitempty"`
}

// ScanResponse is the remote service's acknowledgement of a submission. It is
// passed through as parsed, without local validation.
type ScanResponse struct {
	// Message is a human-readable submission status.
	Message string `json:"message"`
	// UUID is the scan identifier, used later with Result.
	UUID string `json:"uuid"`
	// Result is the URL of the human-readable report.
	Result string `json:"result"`
	// API is the URL of the machine-readable result.
	API string `json:"api"`
	// Visibility the service applied to the scan.
	Visibility string `json:"visibility"`
	// Options echoes scan options resolved by the service.
	Options struct {
		UserAgent string `json:"useragent"`
	} `json:"options"`
	// URL is the submitted target as the service recorded it.
	URL string `json:"url"`
	// Country the scan will run from.
	Country string `json:"country"`
}

// ResultResponse is a finished scan report. Each section's internal shape is
// defined by the remote service and deliberately kept opaque here.
type ResultResponse struct {
	Task     json.RawMessage `json:"task,omitempty"`
	Page     json.RawMessage `json:"page,omitempty"`
	Lists    json.RawMessage `json:"lists,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Meta     json.RawMessage `json:"meta,omitempty"`
	Stats    json.RawMessage `json:"stats,omitempty"`
	Verdicts json.RawMessage `json:"verdicts,omitempty"`
}

// SearchOptions carries the optional query parameters of a search.
type SearchOptions struct {
	// Size limits the number of returned results. Zero means the remote
	// default.
	Size int
	// SearchAfter is the opaque pagination cursor from a previous response.
	SearchAfter string
}

// SearchResponse holds search hits plus response metadata. Individual results
// are passed through opaque and unvalidated.
type SearchResponse struct {
	Results []json.RawMessage `json:"results"`
	Total   int               `json:"total"`
	Took    int               `json:"took"`
	HasMore bool              `json:"has_more"`
}
