package controller

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jt828/api-relay/pkg/model"
)

var (
	errBodyNotObject = errors.New("request body must be a JSON object")
	errNullField     = errors.New("field may not be null")
)

type createRequestRequest struct {
	Method   string            `json:"method" validate:"required"`
	Url      string            `json:"url" validate:"required"`
	Headers  map[string]string `json:"headers"`
	Body     *string           `json:"body"`
	Response json.RawMessage   `json:"response"`
	Status   *int              `json:"status"`
	Duration *int64            `json:"duration" validate:"omitempty,gte=0"`
}

func (r *createRequestRequest) toDraft() *model.HistoryRecordDraft {
	return &model.HistoryRecordDraft{
		Method:   r.Method,
		Url:      r.Url,
		Headers:  r.Headers,
		Body:     r.Body,
		Response: r.Response,
		Status:   r.Status,
		Duration: r.Duration,
	}
}

type historyRecordResponse struct {
	Id        int64             `json:"id"`
	Method    string            `json:"method"`
	Url       string            `json:"url"`
	Headers   map[string]string `json:"headers"`
	Body      *string           `json:"body"`
	Response  json.RawMessage   `json:"response"`
	Status    *int              `json:"status"`
	Duration  *int64            `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

func toHistoryRecordResponse(r *model.HistoryRecord) historyRecordResponse {
	return historyRecordResponse{
		Id:        r.Id,
		Method:    r.Method,
		Url:       r.Url,
		Headers:   r.Headers,
		Body:      r.Body,
		Response:  r.Response,
		Status:    r.Status,
		Duration:  r.Duration,
		Timestamp: r.Timestamp,
	}
}

type createConfigurationRequest struct {
	Name        string            `json:"name" validate:"notblank"`
	Description *string           `json:"description"`
	Endpoints   []json.RawMessage `json:"endpoints" validate:"required,dive,jsonobject"`
}

func (r *createConfigurationRequest) toDraft() *model.ConfigurationDraft {
	return &model.ConfigurationDraft{
		Name:        r.Name,
		Description: r.Description,
		Endpoints:   r.Endpoints,
	}
}

// updateConfigurationRequest tracks key presence so that an omitted field
// is left alone while an explicit null description clears it.
type updateConfigurationRequest struct {
	Name        model.Optional[*string]           `json:"name"`
	Description model.Optional[*string]           `json:"description"`
	Endpoints   model.Optional[[]json.RawMessage] `json:"endpoints"`
}

func (r *updateConfigurationRequest) toPatch() (*model.ConfigurationPatch, error) {
	patch := &model.ConfigurationPatch{Description: r.Description}

	if r.Name.Set {
		if r.Name.Value == nil {
			return nil, errNullField
		}
		if err := validate.Var(*r.Name.Value, "notblank"); err != nil {
			return nil, err
		}
		patch.Name = r.Name.Value
	}

	if r.Endpoints.Set {
		if err := validate.Var(r.Endpoints.Value, "required,dive,jsonobject"); err != nil {
			return nil, err
		}
		patch.Endpoints = r.Endpoints.Value
	}

	return patch, nil
}

type configurationResponse struct {
	Id          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Endpoints   []json.RawMessage `json:"endpoints"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toConfigurationResponse(c *model.Configuration) configurationResponse {
	endpoints := c.Endpoints
	if endpoints == nil {
		endpoints = []json.RawMessage{}
	}
	return configurationResponse{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		Endpoints:   endpoints,
		CreatedAt:   c.CreatedAt,
	}
}

type proxyRequest struct {
	Method  string            `json:"method" validate:"notblank"`
	Url     string            `json:"url" validate:"notblank"`
	Headers map[string]string `json:"headers"`
	Body    *string           `json:"body"`
}

func (r *proxyRequest) toDescriptor() model.RequestDescriptor {
	return model.RequestDescriptor{
		Method:  r.Method,
		Url:     r.Url,
		Headers: r.Headers,
		Body:    r.Body,
	}
}

type proxyResponse struct {
	Data       json.RawMessage   `json:"data"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Duration   int64             `json:"duration"`
}

type proxyFailureResponse struct {
	Error    string `json:"error"`
	Status   int    `json:"status"`
	Duration int64  `json:"duration"`
}

type successResponse struct {
	Success bool `json:"success"`
}
