// Package dto provides data transfer objects for the connection HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// ConnectionRequest is the body of POST /v1/connections and PUT /v1/connections/:id.
// On update, an absent password keeps the stored one and an empty string clears it.
type ConnectionRequest struct {
	Name         string  `json:"name"`
	DBType       string  `json:"db_type"`
	Host         *string `json:"host"`
	Port         *int    `json:"port"`
	Username     *string `json:"username"`
	Password     *string `json:"password"`
	DatabaseName *string `json:"database_name"`
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

// Validate checks field formats. database_name must pass the guard's identifier rules.
func (r *ConnectionRequest) Validate(guard *customValidation.QueryGuard) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			customValidation.NotBlank,
			validation.RuneLength(1, 100).Error("name must be at most 100 characters"),
		),
		validation.Field(&r.DBType,
			validation.Required.Error("db_type is required"),
			dbTypeRule,
		),
		validation.Field(&r.Host, validation.RuneLength(0, 255).Error("host must be at most 255 characters")),
		validation.Field(&r.Port,
			validation.NilOrNotEmpty.Error("port must be between 1 and 65535"),
			validation.Min(1).Error("port must be between 1 and 65535"),
			validation.Max(65535).Error("port must be between 1 and 65535"),
		),
		validation.Field(&r.Username,
			validation.RuneLength(0, 255).Error("username must be at most 255 characters"),
		),
		validation.Field(&r.Password,
			validation.Length(0, 1024).Error("password must be at most 1024 characters"),
		),
		validation.Field(&r.DatabaseName, customValidation.Identifier(guard)),
	)
}

// ToInput converts the request to the use case input. Call Validate first.
func (r *ConnectionRequest) ToInput() *connectionDomain.ConnectionInput {
	dbType, _ := connectionDomain.ParseDBType(r.DBType)
	return &connectionDomain.ConnectionInput{
		Name:         r.Name,
		DBType:       dbType,
		Host:         r.Host,
		Port:         r.Port,
		Username:     r.Username,
		Password:     r.Password,
		DatabaseName: r.DatabaseName,
	}
}

// ExecuteRequest is the body of POST /v1/connections/:id/execute.
type ExecuteRequest struct {
	Query string `json:"query"`
}

// Validate checks that a query is present.
func (r *ExecuteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Query,
			validation.Required.Error("query is required"),
			customValidation.NotBlank,
		),
	)
}
