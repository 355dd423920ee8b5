package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PartialFailureResponse cuerpo de error cuando algunos ensambles ya quedaron creados.
type PartialFailureResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Committed   int      `json:"committed"`
	Total       int      `json:"total"`
	AssemblyIDs []string `json:"assembly_ids"`
}
