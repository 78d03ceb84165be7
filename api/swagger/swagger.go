package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MyArk Admin API",
        "description": "Admin backend for CSV bulk imports of opportunities, schools and organizers",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and session endpoints"},
        {"name": "Imports", "description": "CSV bulk import preview, commit and templates"},
        {"name": "Exports", "description": "Entity collection downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/imports/{entity}/template": {
            "get": {
                "tags": ["Imports"],
                "summary": "Download a CSV import template",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["opportunities", "schools", "organizers"]}
                ],
                "responses": {
                    "200": {"description": "CSV content"},
                    "404": {"description": "Unsupported entity"}
                }
            }
        },
        "/admin/imports/{entity}/preview": {
            "post": {
                "tags": ["Imports"],
                "summary": "Preview a CSV import",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["opportunities", "schools", "organizers"]},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty, oversized or malformed file"},
                    "404": {"description": "Unsupported entity"},
                    "503": {"description": "Reference data unavailable"}
                }
            }
        },
        "/admin/imports/{entity}/commit": {
            "post": {
                "tags": ["Imports"],
                "summary": "Commit a reviewed import batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["opportunities", "schools", "organizers"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No rows or row limit exceeded"},
                    "404": {"description": "Unsupported entity"},
                    "503": {"description": "Reference data unavailable"}
                }
            }
        },
        "/admin/exports/{entity}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export an entity collection",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["opportunities", "schools", "organizers"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "404": {"description": "Unsupported entity"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CommitRow": {
            "type": "object",
            "required": ["raw"],
            "properties": {
                "index": {"type": "integer"},
                "raw": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "CommitRequest": {
            "type": "object",
            "required": ["rows"],
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/CommitRow"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
