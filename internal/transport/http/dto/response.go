package dto

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
