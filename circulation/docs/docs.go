// Package docs holds the OpenAPI document served under /swagger. It is maintained by hand
// next to the godoc annotations in internal/handler.
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
        "/circulation/checkin": {
            "post": {
                "tags": ["circulation"],
                "summary": "Record the return of a copy",
                "parameters": [
                    {"type": "string", "description": "staff id", "name": "X-User-Name", "in": "header", "required": true},
                    {"type": "string", "description": "librarian or admin", "name": "X-User-Role", "in": "header", "required": true},
                    {"description": "return", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CheckInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CheckInResult"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/circulation/checkout": {
            "post": {
                "tags": ["circulation"],
                "summary": "Check a copy out to the caller",
                "parameters": [
                    {"type": "string", "description": "borrower id", "name": "X-User-Name", "in": "header", "required": true},
                    {"description": "copy", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.LoanResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/circulation/renew": {
            "post": {
                "tags": ["circulation"],
                "summary": "Extend the caller's loan of a copy",
                "parameters": [
                    {"type": "string", "description": "borrower id", "name": "X-User-Name", "in": "header", "required": true},
                    {"description": "copy", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RenewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoanResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/copies/{copyId}/availability": {
            "get": {
                "tags": ["copies"],
                "summary": "When a copy is expected back on the shelf",
                "parameters": [
                    {"type": "string", "description": "copy id", "name": "copyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AvailabilityReport"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "echo.HTTPError": {
            "type": "object",
            "properties": {"message": {}}
        },
        "model.AvailabilityReport": {
            "type": "object",
            "properties": {
                "branch": {"type": "string"},
                "copyId": {"type": "string"},
                "expectedDate": {"type": "string", "format": "date"},
                "location": {"type": "string"},
                "message": {"type": "string"},
                "state": {"type": "string", "enum": ["due", "on_shelf", "recorded"]},
                "waitingList": {"type": "integer"}
            }
        },
        "model.CheckInRequest": {
            "type": "object",
            "required": ["borrowerId", "copyId", "location"],
            "properties": {
                "borrowerId": {"type": "string", "maxLength": 64},
                "copyId": {"type": "string", "maxLength": 64},
                "location": {"type": "string", "maxLength": 128}
            }
        },
        "model.CheckInResult": {
            "type": "object",
            "properties": {
                "copyId": {"type": "string"},
                "lateDays": {"type": "integer"},
                "lateFee": {"type": "integer"}
            }
        },
        "model.CheckoutRequest": {
            "type": "object",
            "required": ["copyId"],
            "properties": {"copyId": {"type": "string", "maxLength": 64}}
        },
        "model.LoanResponse": {
            "type": "object",
            "properties": {
                "copyId": {"type": "string"},
                "expiresOn": {"type": "string", "format": "date"},
                "renewsLeft": {"type": "integer"}
            }
        },
        "model.RenewRequest": {
            "type": "object",
            "required": ["copyId"],
            "properties": {"copyId": {"type": "string", "maxLength": 64}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Library circulation API",
	Description:      "Checkout, return, renewal and availability of library copies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
