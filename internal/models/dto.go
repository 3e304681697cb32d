package models

type GenerateRequest struct {
	Profile UserProfile `json:"profile"`
}

type GenerateResponse struct {
	Success     bool `json:"success"`
	Suggestions int  `json:"suggestions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type ProfileResponse struct {
	Profile UserProfile `json:"profile"`
}

type SuggestionsResponse struct {
	Suggestions []JobSuggestion `json:"suggestions"`
}

type UploadResponse struct {
	Key          string `json:"key"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	PageCount    int    `json:"page_count"`
	Characters   int    `json:"characters"`
}

type SearchHit struct {
	SuggestionID string  `json:"suggestion_id"`
	JobTitle     string  `json:"job_title"`
	Score        float32 `json:"score"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}
