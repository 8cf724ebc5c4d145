// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"Bearer": []}], "tags": ["auth"], "summary": "User logout", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {
            "get": {"security": [{"Bearer": []}], "tags": ["users"], "summary": "Get user by ID", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "tags": ["users"], "summary": "Update user", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["users"], "summary": "Delete user", "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{uid}": {
            "get": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "List accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "Create account", "responses": {"201": {"description": "Created"}}}
        },
        "/accounts/drafts/{uid}": {"get": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "Get drafts account", "responses": {"200": {"description": "OK"}}}},
        "/accounts/find/{id}": {"get": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "Get account", "responses": {"200": {"description": "OK"}}}},
        "/accounts/{id}": {
            "put": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "Update account", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["accounts"], "summary": "Delete account", "responses": {"200": {"description": "OK"}}}
        },
        "/goals/{aid}": {
            "get": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "List goals", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Create goal", "responses": {"201": {"description": "Created"}}}
        },
        "/goals/find/{id}": {"get": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Get goal", "responses": {"200": {"description": "OK"}}}},
        "/goals/currentAmountChange/{id}": {"put": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Change goal reservation", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/goals/complete/{id}": {"put": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Complete goal", "responses": {"200": {"description": "OK"}}}},
        "/goals/{id}": {
            "put": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Update goal", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["goals"], "summary": "Delete goal", "responses": {"200": {"description": "OK"}}}
        },
        "/expenses": {"post": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Create expense", "responses": {"201": {"description": "Created"}}}},
        "/expenses/{id}": {
            "get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Get expense", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Update expense", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Delete expense", "responses": {"200": {"description": "OK"}}}
        },
        "/expenses/find/{aid}": {"get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "List expenses", "responses": {"200": {"description": "OK"}}}},
        "/expenses/breakdown/{aid}": {"get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Expense breakdown", "responses": {"200": {"description": "OK"}}}},
        "/expenses/drafts/sms": {"post": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Import SMS as draft", "responses": {"201": {"description": "Created"}}}},
        "/incomes": {"post": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Create income", "responses": {"201": {"description": "Created"}}}},
        "/incomes/{id}": {
            "get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Get income", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Update income", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Delete income", "responses": {"200": {"description": "OK"}}}
        },
        "/incomes/find/{aid}": {"get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "List incomes", "responses": {"200": {"description": "OK"}}}},
        "/incomes/breakdown/{aid}": {"get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "Income breakdown", "responses": {"200": {"description": "OK"}}}},
        "/categories": {"get": {"security": [{"Bearer": []}], "tags": ["entries"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "x-access-token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SaveBlue API",
	Description:      "Personal finance backend: accounts, incomes, expenses and savings goals",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
