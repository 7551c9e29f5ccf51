package controller

import (
	"net/http"

	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/internal/service"
	"github.com/jt828/api-relay/pkg/apperror"
)

type RequestController struct {
	requestService service.RequestService
}

func NewRequestController(requestService service.RequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

func (ctrl *RequestController) ListRequests(w http.ResponseWriter, r *http.Request) error {
	records, err := ctrl.requestService.ListRequests(r.Context())
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to fetch requests", err)
	}

	response := make([]historyRecordResponse, len(records))
	for i, record := range records {
		response[i] = toHistoryRecordResponse(record)
	}
	interceptor.WriteJSON(w, http.StatusOK, response)
	return nil
}

func (ctrl *RequestController) GetRequest(w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		return apperror.New(apperror.ErrNotFound, "Request not found", nil)
	}

	record, err := ctrl.requestService.GetRequest(r.Context(), id)
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to fetch request", err)
	}
	if record == nil {
		return apperror.New(apperror.ErrNotFound, "Request not found", nil)
	}

	interceptor.WriteJSON(w, http.StatusOK, toHistoryRecordResponse(record))
	return nil
}

func (ctrl *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) error {
	var request createRequestRequest
	if err := decodeJSON(r, &request, "Invalid request data"); err != nil {
		return err
	}

	record, err := ctrl.requestService.CreateRequest(r.Context(), request.toDraft())
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to save request", err)
	}

	interceptor.WriteJSON(w, http.StatusOK, toHistoryRecordResponse(record))
	return nil
}
