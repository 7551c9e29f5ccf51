package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/internal/service"
	"github.com/jt828/api-relay/pkg/apperror"
)

const (
	msgInvalidConfiguration  = "Invalid configuration data"
	msgConfigurationNotFound = "Configuration not found"
)

type ConfigurationController struct {
	configurationService service.ConfigurationService
}

func NewConfigurationController(configurationService service.ConfigurationService) *ConfigurationController {
	return &ConfigurationController{configurationService: configurationService}
}

// pathID parses the {id} route segment. Anything that is not an integer
// cannot name a stored record, so callers treat it as not found.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (ctrl *ConfigurationController) ListConfigurations(w http.ResponseWriter, r *http.Request) error {
	configurations, err := ctrl.configurationService.ListConfigurations(r.Context())
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to fetch configurations", err)
	}

	response := make([]configurationResponse, len(configurations))
	for i, c := range configurations {
		response[i] = toConfigurationResponse(c)
	}
	interceptor.WriteJSON(w, http.StatusOK, response)
	return nil
}

func (ctrl *ConfigurationController) GetConfiguration(w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	c, err := ctrl.configurationService.GetConfiguration(r.Context(), id)
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to fetch configuration", err)
	}
	if c == nil {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	interceptor.WriteJSON(w, http.StatusOK, toConfigurationResponse(c))
	return nil
}

func (ctrl *ConfigurationController) CreateConfiguration(w http.ResponseWriter, r *http.Request) error {
	var request createConfigurationRequest
	if err := decodeJSON(r, &request, msgInvalidConfiguration); err != nil {
		return err
	}

	c, err := ctrl.configurationService.CreateConfiguration(r.Context(), request.toDraft())
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to save configuration", err)
	}

	interceptor.WriteJSON(w, http.StatusOK, toConfigurationResponse(c))
	return nil
}

// UpdateConfiguration validates the body before looking at the id, so an
// invalid body is a 400 even for an unknown configuration.
func (ctrl *ConfigurationController) UpdateConfiguration(w http.ResponseWriter, r *http.Request) error {
	var request updateConfigurationRequest
	if err := decodeJSON(r, &request, msgInvalidConfiguration); err != nil {
		return err
	}
	patch, err := request.toPatch()
	if err != nil {
		return apperror.New(apperror.ErrInvalidArgument, msgInvalidConfiguration, err)
	}

	id, ok := pathID(r)
	if !ok {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	c, err := ctrl.configurationService.UpdateConfiguration(r.Context(), id, patch)
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to update configuration", err)
	}
	if c == nil {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	interceptor.WriteJSON(w, http.StatusOK, toConfigurationResponse(c))
	return nil
}

func (ctrl *ConfigurationController) DeleteConfiguration(w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	deleted, err := ctrl.configurationService.DeleteConfiguration(r.Context(), id)
	if err != nil {
		return apperror.New(apperror.ErrInternal, "Failed to delete configuration", err)
	}
	if !deleted {
		return apperror.New(apperror.ErrNotFound, msgConfigurationNotFound, nil)
	}

	interceptor.WriteJSON(w, http.StatusOK, successResponse{Success: true})
	return nil
}
