package dto

type DeleteOverlayResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Violations []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"violations"`
}
