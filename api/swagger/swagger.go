package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Jadval API",
        "description": "Voice-driven lesson schedule service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Voice", "description": "Voice command interpretation"},
        {"name": "Lessons", "description": "Lesson slot management"},
        {"name": "Schedule", "description": "Week schedule grid"},
        {"name": "Exports", "description": "Asynchronous schedule exports"},
        {"name": "Authentication", "description": "Sessions and tokens"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/voice/interpret": {
            "post": {
                "tags": ["Voice"],
                "summary": "Interpret a transcribed lesson command",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InterpretRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Text too short or unsupported language"}
                }
            }
        },
        "/voice/commit": {
            "post": {
                "tags": ["Voice"],
                "summary": "Commit a reviewed command into the schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/voice/languages": {
            "get": {
                "tags": ["Voice"],
                "summary": "List supported capture languages",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List lessons",
                "parameters": [
                    {"name": "weekStart", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "shift", "in": "query", "type": "string"},
                    {"name": "teacher", "in": "query", "type": "string"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Create or replace the lesson occupying a slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedule/week/{weekStart}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Week schedule grid",
                "parameters": [
                    {"name": "weekStart", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/copy-week": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy all lessons of one week into another",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyWeekRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a week schedule export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "InterpretRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "language": {"type": "string", "enum": ["uz", "ru", "en"]},
                "confidence": {"type": "number"},
                "alternatives": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/TranscriptAlternative"}
                }
            },
            "required": ["text"]
        },
        "TranscriptAlternative": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "confidence": {"type": "number"}
            }
        },
        "CommitRequest": {
            "type": "object",
            "properties": {
                "week_start": {"type": "string"},
                "day": {"type": "string"},
                "shift": {"type": "string"},
                "period": {"type": "integer"},
                "subject": {"type": "string"},
                "room": {"type": "string"},
                "teacher": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string"}
            },
            "required": ["week_start", "day", "shift", "period", "subject", "room", "teacher", "groups", "type"]
        },
        "LessonRequest": {
            "type": "object",
            "properties": {
                "week_start": {"type": "string"},
                "day": {"type": "string"},
                "shift": {"type": "string"},
                "period": {"type": "integer"},
                "subject": {"type": "string"},
                "room": {"type": "string"},
                "teacher": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string"}
            },
            "required": ["week_start", "day", "shift", "period", "subject", "room", "teacher", "groups", "type"]
        },
        "CopyWeekRequest": {
            "type": "object",
            "properties": {
                "from_week": {"type": "string"},
                "to_week": {"type": "string"}
            },
            "required": ["from_week", "to_week"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "week_start": {"type": "string"},
                "shift": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["week_start", "format"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
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
