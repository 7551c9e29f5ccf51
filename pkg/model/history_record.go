package model

import (
	"encoding/json"
	"time"
)

func (dataEntity *HistoryRecordDataEntity) ToDomain() HistoryRecord {
	headers := dataEntity.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return HistoryRecord{
		Id:        dataEntity.Id,
		Method:    dataEntity.Method,
		Url:       dataEntity.Url,
		Headers:   headers,
		Body:      dataEntity.Body,
		Response:  dataEntity.Response,
		Status:    dataEntity.Status,
		Duration:  dataEntity.Duration,
		Timestamp: dataEntity.Timestamp,
	}
}

type HistoryRecordDataEntity struct {
	Id        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Method    string            `gorm:"column:method"`
	Url       string            `gorm:"column:url"`
	Headers   map[string]string `gorm:"column:headers;serializer:json"`
	Body      *string           `gorm:"column:body"`
	Response  json.RawMessage   `gorm:"column:response;serializer:json"`
	Status    *int              `gorm:"column:status"`
	Duration  *int64            `gorm:"column:duration"`
	Timestamp time.Time         `gorm:"column:timestamp"`
}

func (dataEntity *HistoryRecordDataEntity) TableName() string {
	return "main.api_requests"
}

// HistoryRecord is one relay attempt (or a client-submitted entry) as stored.
// Records are never updated after creation.
type HistoryRecord struct {
	Id        int64
	Method    string
	Url       string
	Headers   map[string]string
	Body      *string
	Response  json.RawMessage
	Status    *int
	Duration  *int64
	Timestamp time.Time
}

// HistoryRecordDraft carries the caller-owned fields of a HistoryRecord.
type HistoryRecordDraft struct {
	Method   string
	Url      string
	Headers  map[string]string
	Body     *string
	Response json.RawMessage
	Status   *int
	Duration *int64
}
