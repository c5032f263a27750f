// Package dto provides data transfer objects for the script HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// ScriptRequest is the body of POST /v1/scripts.
type ScriptRequest struct {
	Name   string `json:"name"`
	Query  string `json:"query"`
	DBType string `json:"db_type"`
}

var dbTypeRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := connectionDomain.ParseDBType(s); err != nil {
		return validation.NewError(
			"validation_db_type",
			"must be one of postgresql, mysql, sqlite, mongodb, redis",
		)
	}
	return nil
})

// Validate checks field presence and formats. The query itself is screened by the
// use case.
func (r *ScriptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			customValidation.NotBlank,
			validation.RuneLength(1, 100).Error("name must be at most 100 characters"),
		),
		validation.Field(&r.Query,
			validation.Required.Error("query is required"),
			customValidation.NotBlank,
		),
		validation.Field(&r.DBType,
			validation.Required.Error("db_type is required"),
			dbTypeRule,
		),
	)
}

// ToInput converts the request to the use case input. Call Validate first.
func (r *ScriptRequest) ToInput() *scriptDomain.ScriptInput {
	dbType, _ := connectionDomain.ParseDBType(r.DBType)
	return &scriptDomain.ScriptInput{
		Name:   r.Name,
		Query:  r.Query,
		DBType: dbType,
	}
}
