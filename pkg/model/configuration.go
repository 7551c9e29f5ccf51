package model

import (
	"encoding/json"
	"time"
)

func (dataEntity *ConfigurationDataEntity) ToDomain() Configuration {
	endpoints := dataEntity.Endpoints
	if endpoints == nil {
		endpoints = []json.RawMessage{}
	}
	return Configuration{
		Id:          dataEntity.Id,
		Name:        dataEntity.Name,
		Description: dataEntity.Description,
		Endpoints:   endpoints,
		CreatedAt:   dataEntity.CreatedAt,
	}
}

type ConfigurationDataEntity struct {
	Id          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string            `gorm:"column:name"`
	Description *string           `gorm:"column:description"`
	Endpoints   []json.RawMessage `gorm:"column:endpoints;serializer:json"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
}

func (dataEntity *ConfigurationDataEntity) TableName() string {
	return "main.api_configurations"
}

type Configuration struct {
	Id          int64
	Name        string
	Description *string
	Endpoints   []json.RawMessage
	CreatedAt   time.Time
}

type ConfigurationDraft struct {
	Name        string
	Description *string
	Endpoints   []json.RawMessage
}

// ConfigurationPatch lists the fields an update replaces. Nil Name and
// Endpoints, and an unset Description, leave the stored value as is.
type ConfigurationPatch struct {
	Name        *string
	Description Optional[*string]
	Endpoints   []json.RawMessage
}

func (p ConfigurationPatch) Apply(c *Configuration) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description.Set {
		c.Description = p.Description.Value
	}
	if p.Endpoints != nil {
		c.Endpoints = p.Endpoints
	}
}
