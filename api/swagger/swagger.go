package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OSCA API",
        "description": "Organization announcements: editor sessions and the announcement form action",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Authentication", "description": "Session cookie sign in and sign out"},
        {"name": "Announcements", "description": "Announcement creation and lookup"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session cookie issued", "schema": {"$ref": "#/definitions/LoginResult"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/LoginResult"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out",
                "responses": {
                    "204": {"description": "Session revoked and cookie cleared"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/announcements": {
            "post": {
                "tags": ["Announcements"],
                "summary": "Create announcement",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "org_id", "in": "formData", "type": "string", "required": true},
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "body", "in": "formData", "type": "string", "required": true},
                    {"name": "publishes_at", "in": "formData", "type": "string", "required": true},
                    {"name": "ends_at", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/PipelineResult"}},
                    "400": {"description": "Invalid submission", "schema": {"$ref": "#/definitions/PipelineResult"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/PipelineResult"}},
                    "403": {"description": "Not an editor", "schema": {"$ref": "#/definitions/PipelineResult"}},
                    "404": {"description": "Organization not found", "schema": {"$ref": "#/definitions/PipelineResult"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/PipelineResult"}}
                }
            }
        },
        "/announcement/{id}": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Get announcement",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResult": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "PipelineResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "redirect": {"type": "string", "x-nullable": true}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
