package pantopia

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const apiTimestampLayout = "2006-01-02 15:04:05"

// Status is the extraction state of a data source as reported by the backend.
type Status string

const (
	StatusNotExtracted Status = "NotExtracted"
	StatusInQueue      Status = "InQueue"
	StatusExtracting   Status = "Extracting"
	StatusProcessed    Status = "Processed"
)

// ParseStatus validates a wire status value.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.TrimSpace(value))
	if !s.Valid() {
		return "", fmt.Errorf("unknown data source status %q", value)
	}
	return s, nil
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotExtracted, StatusInQueue, StatusExtracting, StatusProcessed:
		return true
	}
	return false
}

// Active reports whether the backend is still working on the source.
func (s Status) Active() bool {
	return s == StatusInQueue || s == StatusExtracting
}

// Label returns a human readable status.
func (s Status) Label() string {
	switch s {
	case StatusNotExtracted:
		return "Not extracted"
	case StatusInQueue:
		return "In queue"
	case StatusExtracting:
		return "Extracting"
	case StatusProcessed:
		return "Processed"
	default:
		return string(s)
	}
}

// DataSourceKind describes what the user supplied.
type DataSourceKind string

const (
	KindWebsite DataSourceKind = "website"
	KindPDF     DataSourceKind = "pdf"
	KindWord    DataSourceKind = "word"
	KindExcel   DataSourceKind = "excel"
	KindAudio   DataSourceKind = "audio"
	KindText    DataSourceKind = "text"
)

// BriefStatus tracks a brief through its lifecycle.
type BriefStatus string

const (
	BriefDraft      BriefStatus = "Draft"
	BriefInProgress BriefStatus = "In Progress"
	BriefReview     BriefStatus = "Review"
	BriefComplete   BriefStatus = "Complete"
	BriefArchived   BriefStatus = "Archived"
)

var briefTransitions = map[BriefStatus][]BriefStatus{
	BriefDraft:      {BriefInProgress, BriefArchived},
	BriefInProgress: {BriefReview, BriefArchived},
	BriefReview:     {BriefComplete, BriefInProgress, BriefArchived},
}

// Terminal reports whether no further transitions are allowed.
func (s BriefStatus) Terminal() bool {
	return s == BriefComplete || s == BriefArchived
}

// CanTransition reports whether a brief may move from s to next.
func (s BriefStatus) CanTransition(next BriefStatus) bool {
	for _, allowed := range briefTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Company mirrors /companies/ entries.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Contact mirrors /contacts/ entries.
type Contact struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
}

// DisplayName joins first and last name.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Project mirrors /projects/ entries.
type Project struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// DataSource is a website link or uploaded file queued for extraction.
type DataSource struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"company_id"`
	Name      string         `json:"name"`
	Kind      DataSourceKind `json:"kind"`
	URL       string         `json:"url"`
	FileName  string         `json:"file_name"`
	Status    Status         `json:"status"`
	CreatedAt string         `json:"created_at"`
}

// Location returns the URL for links and the file name for uploads.
func (d DataSource) Location() string {
	if d.Kind == KindWebsite || d.FileName == "" {
		return d.URL
	}
	return d.FileName
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (d DataSource) ParsedCreatedAt() time.Time {
	return parseTime(d.CreatedAt)
}

// Paragraph is an extracted content unit.
type Paragraph struct {
	ID           string `json:"id"`
	DataSourceID string `json:"datasource_id"`
	Title        string `json:"title"`
	MainIdea     string `json:"main_idea"`
	Body         string `json:"body"`
}

// Brief is a sales or strategy document.
type Brief struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	ClientID  string      `json:"client_id"`
	ProjectID string      `json:"project_id"`
	Status    BriefStatus `json:"status"`
	Summary   string      `json:"summary"`
	UpdatedAt string      `json:"updated_at"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (b Brief) ParsedUpdatedAt() time.Time {
	return parseTime(b.UpdatedAt)
}

// StatusResponse mirrors /datasources/{id}/status/.
type StatusResponse struct {
	Status string `json:"status"`
}

// listEnvelope accepts both bare arrays and paginated {"results": [...]} bodies.
type listEnvelope[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func decodeList[T any](body []byte) ([]T, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(apiTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
