package model

type Provider = string

const (
	ProviderAnonymous Provider = "anonymous"
	ProviderGoogle    Provider = "google"
)

type User struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email,omitempty"`
	Anonymous   bool     `json:"anonymous"`
	Provider    Provider `json:"provider"`
}
