// Package docs holds the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service root",
                "responses": {
                    "200": {"description": "Welcome message", "schema": {"$ref": "#/definitions/utils.MessageResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "Application is alive"}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Application is ready"},
                    "503": {"description": "Service unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/alert/api/v1/rules": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rules"],
                "summary": "Create alert rule",
                "parameters": [
                    {"description": "Rule definition", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created rule", "schema": {"$ref": "#/definitions/dto.RuleDTO"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/alert/api/v1/rules/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rules"],
                "summary": "List user rules",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Active rules", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.RuleDTO"}}}
                }
            }
        },
        "/alert/api/v1/rules/{rule_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rules"],
                "summary": "Deactivate rule",
                "parameters": [
                    {"type": "integer", "description": "Rule ID", "name": "rule_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Rule deactivated", "schema": {"$ref": "#/definitions/utils.MessageResponse"}},
                    "400": {"description": "Invalid rule id", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Rule not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/data/ingest": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Ingest measurement",
                "parameters": [
                    {"description": "Measurement", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.IngestRequest"}}
                ],
                "responses": {
                    "200": {"description": "Data processed", "schema": {"$ref": "#/definitions/utils.MessageResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateRuleRequest": {
            "type": "object",
            "required": ["condition", "delivery_channel", "metric_type", "threshold_value", "user_id"],
            "properties": {
                "user_id": {"type": "string", "example": "user1"},
                "metric_type": {"type": "string", "example": "temperature"},
                "threshold_value": {"type": "number", "example": 30},
                "condition": {"type": "string", "enum": ["GREATER_THAN", "LESS_THAN", "EQUALS"]},
                "delivery_channel": {"type": "string", "enum": ["EMAIL", "DASHBOARD", "SMS"]}
            }
        },
        "dto.RuleDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "user_id": {"type": "string", "example": "user1"},
                "metric_type": {"type": "string", "example": "temperature"},
                "threshold_value": {"type": "number", "example": 30},
                "condition": {"type": "string", "example": "GREATER_THAN"},
                "delivery_channel": {"type": "string", "example": "EMAIL"},
                "is_active": {"type": "boolean", "example": true},
                "created_at": {"type": "string"}
            }
        },
        "dto.IngestRequest": {
            "type": "object",
            "required": ["metric_type", "timestamp", "user_id", "value"],
            "properties": {
                "user_id": {"type": "string", "example": "user1"},
                "metric_type": {"type": "string", "example": "temperature"},
                "value": {"type": "number", "example": 35},
                "timestamp": {"type": "string", "example": "2023-10-27T10:00:00"}
            }
        },
        "utils.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "utils.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"$ref": "#/definitions/utils.ErrorDetail"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VoltCast Notification & Alerting Service",
	Description:      "A microservice for managing alert rules and triggering notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
