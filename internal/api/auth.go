package api

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// Response DTOs

type LoginResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// RateLimitedResponse adds machine- and human-readable retry budgets to the
// 429 body; the Retry-After header carries the same seconds value.
type RateLimitedResponse struct {
	Message             string `json:"message"`
	RetryAfter          int    `json:"retryAfter"`
	RetryAfterFormatted string `json:"retryAfterFormatted"`
}
