package dto

import (
	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
)

// VerdictResponse is the public representation of a validation verdict.
type VerdictResponse struct {
	GSTIN         string `json:"gstin"`
	Valid         bool   `json:"valid"`
	StateCode     string `json:"state_code,omitempty"`
	StateName     string `json:"state_name,omitempty"`
	PAN           string `json:"pan,omitempty"`
	EntityCode    string `json:"entity_code,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Message       string `json:"message"`
	ExpectedCheck string `json:"expected_check,omitempty"`
}

// InvalidGSTINResponse is returned with 422 when a single candidate fails validation.
type InvalidGSTINResponse struct {
	Error   string          `json:"error"`
	Reason  string          `json:"reason"`
	Message string          `json:"message"`
	Verdict VerdictResponse `json:"verdict"`
}

// VerifyBatchResponse carries one verdict per submitted candidate, in order.
type VerifyBatchResponse struct {
	Results []VerdictResponse `json:"results"`
	Total   int               `json:"total"`
	Valid   int               `json:"valid"`
	Invalid int               `json:"invalid"`
}

// MapVerdictToResponse converts a domain verdict to its response form.
func MapVerdictToResponse(verdict *gstinDomain.Verdict) VerdictResponse {
	response := VerdictResponse{
		GSTIN:         verdict.GSTIN,
		Valid:         verdict.Valid,
		StateCode:     verdict.StateCode,
		PAN:           verdict.PAN,
		EntityCode:    verdict.EntityCode,
		Reason:        string(verdict.Reason),
		Message:       verdict.Reason.Message(),
		ExpectedCheck: verdict.ExpectedCheck,
	}
	if name, ok := verdict.StateName(); ok {
		response.StateName = name
	}
	return response
}

// MapInvalidVerdictToResponse builds the 422 body for an invalid verdict.
func MapInvalidVerdictToResponse(verdict *gstinDomain.Verdict) InvalidGSTINResponse {
	return InvalidGSTINResponse{
		Error:   "invalid_gstin",
		Reason:  string(verdict.Reason),
		Message: verdict.Reason.Message(),
		Verdict: MapVerdictToResponse(verdict),
	}
}

// MapVerdictsToBatchResponse converts batch verdicts and counts the valid ones.
func MapVerdictsToBatchResponse(verdicts []*gstinDomain.Verdict) VerifyBatchResponse {
	response := VerifyBatchResponse{
		Results: make([]VerdictResponse, 0, len(verdicts)),
		Total:   len(verdicts),
	}
	for _, verdict := range verdicts {
		if verdict.Valid {
			response.Valid++
		} else {
			response.Invalid++
		}
		response.Results = append(response.Results, MapVerdictToResponse(verdict))
	}
	return response
}
