// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/api/todos": {
            "get": {
                "description": "Filters, sorts and paginates the list. Page is 1-based.",
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "List todos",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive substring of the text", "name": "text", "in": "query"},
                    {"type": "boolean", "description": "true for done, false for undone", "name": "status", "in": "query"},
                    {"type": "integer", "description": "1 low, 2 medium, 3 high", "name": "priority", "in": "query"},
                    {"type": "string", "description": "priority, dueDate or priorityDueDate", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "ascending or descending", "name": "directionPriority", "in": "query"},
                    {"type": "string", "description": "ascending or descending", "name": "directionDueDate", "in": "query"},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TodoPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Create a todo",
                "parameters": [
                    {"description": "New todo", "name": "todo", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TodoInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Todo"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/todos/events": {
            "get": {
                "description": "WebSocket. Each text frame is a JSON event {type, id, at}.",
                "tags": ["Todos"],
                "summary": "Todo change feed",
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/todos/metrics": {
            "get": {
                "description": "Average minutes from creation to done, overall and per priority. null means no data.",
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Completion time metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Metrics"}}
                }
            }
        },
        "/api/todos/metrics/report.pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["Todos"],
                "summary": "Metrics report as PDF",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/todos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Get a todo",
                "parameters": [{"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Todo"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Replaces text, due date and priority. An optional status applies done/undone bookkeeping.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Update a todo",
                "parameters": [
                    {"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true},
                    {"description": "Todo fields", "name": "todo", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TodoInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Todo"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Todos"],
                "summary": "Delete a todo",
                "parameters": [{"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/todos/{id}/done": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Mark a todo done",
                "parameters": [{"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Todo"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/todos/{id}/undone": {
            "put": {
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Mark a todo undone",
                "parameters": [{"type": "integer", "description": "Todo ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Todo"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Checks the configured credentials and returns a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.Metrics": {
            "type": "object",
            "properties": {
                "avgTime": {"type": "number"},
                "avgTimeHigh": {"type": "number"},
                "avgTimeLow": {"type": "number"},
                "avgTimeMedium": {"type": "number"}
            }
        },
        "models.Todo": {
            "type": "object",
            "properties": {
                "creationDate": {"type": "string"},
                "doneDate": {"type": "string"},
                "dueDate": {"type": "string", "example": "2024-05-31"},
                "elapsedTime": {"type": "integer"},
                "id": {"type": "integer"},
                "priority": {"type": "integer", "enum": [1, 2, 3]},
                "status": {"type": "boolean"},
                "text": {"type": "string"}
            }
        },
        "models.TodoInput": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "dueDate": {"type": "string", "example": "2024-05-31"},
                "priority": {"type": "integer", "enum": [1, 2, 3]},
                "status": {"type": "boolean"},
                "text": {"type": "string"}
            }
        },
        "models.TodoPage": {
            "type": "object",
            "properties": {
                "todosList": {"type": "array", "items": {"$ref": "#/definitions/models.Todo"}},
                "total": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "todolist API",
	Description:      "Todo list with filtering, sorting, pagination and completion metrics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
