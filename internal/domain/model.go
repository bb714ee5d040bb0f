package domain

import "time"

// Core domain models used internally and on the wire. Every record is owned by
// exactly one operator account; repositories scope all reads and writes by owner.

// Job lifecycle.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Draft lifecycle. Terminal states are only set by explicit review actions.
const (
	DraftPending  = "draft"
	DraftApproved = "approved"
	DraftSent     = "sent"
	DraftRejected = "rejected"
)

const CampaignActive = "active"

type BusinessProfile struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	CompanyName      string    `json:"companyName"`
	Industry         string    `json:"industry"`
	Services         []string  `json:"services"`
	TargetCustomers  string    `json:"targetCustomers"`
	Geography        string    `json:"geography"`
	ValueProposition string    `json:"valueProposition"`
	Offers           []string  `json:"offers"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Campaign struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"ownerId"`
	Name          string         `json:"name"`
	Preset        string         `json:"preset"`
	Industry      string         `json:"industry"`
	Geo           map[string]any `json:"geo,omitempty"`
	Keywords      []string       `json:"keywords"`
	Model         string         `json:"model"`
	SendCapPerRun int            `json:"sendCapPerRun"`
	DailySendCap  int            `json:"dailySendCap"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Job struct {
	ID           string    `json:"jobId"`
	OwnerID      string    `json:"ownerId"`
	CampaignID   string    `json:"campaignId"`
	PlannedCount int       `json:"plannedCount"`
	SentCount    int       `json:"sentCount"`
	CostUSD      float64   `json:"costUSD"`
	Status       string    `json:"status"`
	Progress     float64   `json:"progress"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Draft struct {
	ID          string    `json:"draftId"`
	OwnerID     string    `json:"ownerId"`
	JobID       string    `json:"jobId"`
	CampaignID  string    `json:"campaignId"`
	Seq         int       `json:"seq"`
	LeadName    string    `json:"leadName"`
	LeadCompany string    `json:"leadCompany"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Reviewer    string    `json:"reviewer,omitempty"`
	MessageID   string    `json:"messageId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LeadProfile is a saved analysis result: the pasted lead text plus the
// relayed model output.
type LeadProfile struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	LeadData     string    `json:"leadData"`
	Analysis     string    `json:"analysis"`
	AnalysisType string    `json:"analysisType"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Settings is the single global configuration row. The raw payload is stored
// as-is; these fields are the ones the outreach policy reads from it.
type Settings struct {
	AllowDomains    []string `json:"allowDomains"`
	BlockDomains    []string `json:"blockDomains"`
	UnsubscribeText string   `json:"unsubscribeText"`
	LegalAddress    string   `json:"legalAddress"`
}

// DefaultSettings mirrors the row written when no global settings exist yet.
func DefaultSettings() Settings {
	return Settings{
		AllowDomains:    []string{},
		BlockDomains:    []string{},
		UnsubscribeText: "If you'd prefer not to hear from us again, reply with 'unsubscribe'.",
		LegalAddress:    "NOFA Business Consulting, LLC --- Gaithersburg, MD",
	}
}

// Preset is a named bundle of campaign defaults loaded from a YAML file.
type Preset struct {
	Name           string    `yaml:"name"`
	Industry       string    `yaml:"industry"`
	FromEmail      string    `yaml:"from_email"`
	FromName       string    `yaml:"from_name"`
	Keywords       []string  `yaml:"keywords"`
	TargetRoles    []string  `yaml:"target_roles"`
	ExcludeDomains []string  `yaml:"exclude_domains"`
	Geo            PresetGeo `yaml:"geo"`
	Model          string    `yaml:"model"`
	SendCapPerRun  int       `yaml:"send_cap_per_run"`
	DailySendCap   int       `yaml:"daily_send_cap"`
}

type PresetGeo struct {
	RadiusKM   int    `yaml:"radius_km"`
	CenterCity string `yaml:"center_city"`
	State      string `yaml:"state"`
}
