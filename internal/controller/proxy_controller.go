package controller

import (
	"net/http"

	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/internal/service"
	"github.com/jt828/api-relay/pkg/apperror"
)

type ProxyController struct {
	relayService service.RelayService
}

func NewProxyController(relayService service.RelayService) *ProxyController {
	return &ProxyController{relayService: relayService}
}

// Proxy relays the described call. A transport failure answers with the
// upstream status when one was received and 500 otherwise.
func (ctrl *ProxyController) Proxy(w http.ResponseWriter, r *http.Request) error {
	var request proxyRequest
	if err := decodeJSON(r, &request, "Invalid proxy request"); err != nil {
		return err
	}

	result, err := ctrl.relayService.Relay(r.Context(), request.toDescriptor())
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to record request", err)
	}

	if result.Failed {
		status := result.Status
		if status < 100 || status > 599 {
			status = http.StatusInternalServerError
		}
		interceptor.WriteJSON(w, status, proxyFailureResponse{
			Error:    result.Error,
			Status:   result.Status,
			Duration: result.Duration,
		})
		return nil
	}

	interceptor.WriteJSON(w, http.StatusOK, proxyResponse{
		Data:       result.Data,
		Status:     result.Status,
		StatusText: result.StatusText,
		Headers:    result.Headers,
		Duration:   result.Duration,
	})
	return nil
}
