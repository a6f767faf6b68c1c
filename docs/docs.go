// Package docs registers the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Users", "description": "Registration, login and user management"},
        {"name": "Tasks", "description": "Work orders and their lifecycle"},
        {"name": "Reports", "description": "Operational KPIs"},
        {"name": "Reference", "description": "Locations, equipment and contractors"},
        {"name": "Rules", "description": "Scheduled maintenance rules"}
    ],
    "paths": {
        "/register": {"post": {"tags": ["Users"], "summary": "Register a technician account"}},
        "/login": {"post": {"tags": ["Users"], "summary": "Exchange credentials for a JWT"}},
        "/tasks": {
            "get": {"tags": ["Tasks"], "summary": "List tasks", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Tasks"], "summary": "Create a task", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get a task with its history", "security": [{"BearerAuth": []}]},
            "put": {"tags": ["Tasks"], "summary": "Update descriptive fields or the assignee", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}/start": {"post": {"tags": ["Tasks"], "summary": "Start a pending task", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/complete": {"post": {"tags": ["Tasks"], "summary": "Complete a task in progress", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/pause": {"post": {"tags": ["Tasks"], "summary": "Pause a task in progress", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/resume": {"post": {"tags": ["Tasks"], "summary": "Resume a paused task", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/cancel": {"post": {"tags": ["Tasks"], "summary": "Cancel an open task", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/archive": {"post": {"tags": ["Tasks"], "summary": "Archive a task", "security": [{"BearerAuth": []}]}},
        "/tasks/{id}/daily-logs": {"post": {"tags": ["Tasks"], "summary": "Confirm today's work", "security": [{"BearerAuth": []}]}},
        "/reports/dashboard": {"get": {"tags": ["Reports"], "summary": "All dashboard panels", "security": [{"BearerAuth": []}]}},
        "/rules": {
            "get": {"tags": ["Rules"], "summary": "List scheduled rules", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Rules"], "summary": "Create a scheduled rule", "security": [{"BearerAuth": []}]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Work Order API",
	Description:      "Maintenance work orders: task lifecycle, assignment, daily logs and operational reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
