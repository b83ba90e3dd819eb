package domain

// MatchResult is a corpus name paired with its similarity score (0-100)
type MatchResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SearchResponse is the payload returned for a successful search
type SearchResponse struct {
	Results []Record `json:"results"`
	Message string   `json:"message,omitempty"`
}

// NoResultsMessage accompanies an empty result set
const NoResultsMessage = "No company data available yet for this celebrity."
