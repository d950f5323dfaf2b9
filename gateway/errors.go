package gateway

import (
	"errors"
	"fmt"

	"github.com/Roadpeak/D3-client-sub000/models"
)

// ErrUnauthorized is returned on a 401 anywhere; handlers translate it into
// a redirect-to-login response. The wizard state machine never sees it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx upstream response. Business-rule rejections attach
// branch/store diagnostics which are carried through for the user.
type APIError struct {
	StatusCode int
	Message    string
	BranchInfo *BranchPayload
	StoreInfo  *models.StoreInfo
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

// errorBody is the shape of upstream error responses.
type errorBody struct {
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	BranchInfo *BranchPayload    `json:"branchInfo"`
	StoreInfo  *models.StoreInfo `json:"storeInfo"`
}
