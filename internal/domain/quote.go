package domain

import "time"

const (
	QuotePending   = "pending"
	QuoteContacted = "contacted"
	QuoteQuoted    = "quoted"
	QuoteCompleted = "completed"
)

// Services offered on the contact form.
var Services = []string{
	"Custom Websites",
	"Custom Web Applications",
	"Google Ads Management",
	"Social Media Advertising",
	"Poster & Graphic Design",
	"Website Maintenance",
	"Other",
}

var BudgetRanges = []string{
	"Under R5,000",
	"R5,000 - R10,000",
	"R10,000 - R25,000",
	"R25,000 - R50,000",
	"R50,000+",
}

type QuoteRequest struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Service            string    `json:"service"`
	BudgetRange        string    `json:"budgetRange"`
	ProjectDescription string    `json:"projectDescription"`
	FileName           string    `json:"fileName,omitempty"`
	FileSize           int64     `json:"fileSize,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}
