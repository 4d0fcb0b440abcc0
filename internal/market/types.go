package market

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Status is the moderation state of a model record.
type Status string

// Moderation states.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus normalizes raw into a known Status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// Pricing tiers.
const (
	PricingFree     = "free"
	PricingFreemium = "freemium"
	PricingPaid     = "paid"
)

// Capabilities a model may advertise.
const (
	CapabilityText  = "text"
	CapabilityImage = "image"
	CapabilityAudio = "audio"
	CapabilityVideo = "video"
	CapabilityCode  = "code"
	CapabilityAgent = "agent"
)

// Timestamp is a backend time value. Empty, null or unparseable values decode
// to the zero time so one bad record does not fail a whole listing.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339 strings and maps anything else to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	value := gjson.ParseBytes(data)
	if value.Type != gjson.String {
		return nil
	}
	if parsed, errParse := time.Parse(time.RFC3339Nano, strings.TrimSpace(value.Str)); errParse == nil {
		t.Time = parsed
	}
	return nil
}

// MarshalJSON writes null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.MarshalJSON()
}

// Uploader is the denormalized reference to the user who uploaded a model.
type Uploader struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName returns "First Last" with blanks dropped.
func (u Uploader) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Model is a marketplace model record as returned by the backend.
type Model struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription,omitempty"`
	Category         string   `json:"category"`
	Provider         string   `json:"provider"`
	Pricing          string   `json:"pricing"`
	Rating           float64  `json:"rating"`
	ReviewsCount     int      `json:"reviewsCount"`
	InstallsCount    *int     `json:"installsCount,omitempty"`
	Capabilities     []string `json:"capabilities"`
	IsAPIAvailable   bool     `json:"isApiAvailable"`
	IsOpenSource     bool     `json:"isOpenSource"`
	ModelType        string   `json:"modelType,omitempty"`
	ExternalURL      string   `json:"externalUrl,omitempty"`
	IconURL          string   `json:"iconUrl,omitempty"`
	Screenshots      []string `json:"screenshots,omitempty"`
	Tags             []string `json:"tags"`
	BestFor          []string `json:"bestFor,omitempty"`
	Features         []string `json:"features,omitempty"`
	ExamplePrompts   []string `json:"examplePrompts,omitempty"`
	Status           Status   `json:"status"`
	RejectionReason  string   `json:"rejectionReason,omitempty"`
	Featured         bool     `json:"featured,omitempty"`
	TrendingScore    *float64 `json:"trendingScore,omitempty"`
	UploadedBy       Uploader `json:"uploadedBy"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// EffectiveRejectionReason returns the rejection reason only for rejected records.
func (m Model) EffectiveRejectionReason() string {
	if m.Status != StatusRejected {
		return ""
	}
	return m.RejectionReason
}

// User is the account record returned on login and signup.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UploadRequest is the payload for submitting a new model.
type UploadRequest struct {
	Name             string   `json:"name" yaml:"name"`
	ShortDescription string   `json:"shortDescription" yaml:"shortDescription"`
	LongDescription  string   `json:"longDescription,omitempty" yaml:"longDescription"`
	Category         string   `json:"category" yaml:"category"`
	Provider         string   `json:"provider" yaml:"provider"`
	Pricing          string   `json:"pricing" yaml:"pricing"`
	ModelType        string   `json:"modelType,omitempty" yaml:"modelType"`
	ExternalURL      string   `json:"externalUrl,omitempty" yaml:"externalUrl"`
	IsAPIAvailable   bool     `json:"isApiAvailable" yaml:"isApiAvailable"`
	IsOpenSource     bool     `json:"isOpenSource" yaml:"isOpenSource"`
	Tags             []string `json:"tags" yaml:"tags"`
	Capabilities     []string `json:"capabilities" yaml:"capabilities"`
	BestFor          []string `json:"bestFor" yaml:"bestFor"`
	Features         []string `json:"features" yaml:"features"`
	ExamplePrompts   []string `json:"examplePrompts" yaml:"examplePrompts"`
}

// StatusUpdate is the payload for a moderation change.
type StatusUpdate struct {
	Status          Status `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// Envelope is the uniform wrapper every backend response uses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// AuthData carries the login or signup result.
type AuthData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Pagination describes a page of an admin or public listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalModels int  `json:"totalModels"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// ModelList is a listing payload. Count or Pagination is set depending on the endpoint.
type ModelList struct {
	Models     []Model     `json:"models"`
	Count      int         `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ModelData wraps a single model record.
type ModelData struct {
	Model Model `json:"model"`
}

// UploadedModel is the summary returned after an upload.
type UploadedModel struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"shortDescription"`
	Category         string    `json:"category"`
	Provider         string    `json:"provider"`
	Status           Status    `json:"status"`
	CreatedAt        Timestamp `json:"createdAt"`
}

// UploadData wraps the uploaded model summary.
type UploadData struct {
	Model UploadedModel `json:"model"`
}
